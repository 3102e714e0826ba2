package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/citycare/citycare/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"line", "  Broken lamp \n", "Broken lamp"},
		{"crlf", "ann@city.test\r\n", "ann@city.test"},
		{"last line without newline", "51.5, -0.12", "51.5, -0.12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetSimpleText(rdr(tt.in), "Title", &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Title\n> ", out.String())
		})
	}
}

func TestGetSimpleText_EOF(t *testing.T) {
	_, err := GetSimpleText(rdr(""), "Title", io.Discard)
	assert.ErrorIs(t, err, io.EOF)
}

func TestGetMultiline(t *testing.T) {
	var out bytes.Buffer
	got, err := GetMultiline(rdr("Deep hole\r\nnear the school\n\nignored\n"), "Description", &out)
	require.NoError(t, err)
	assert.Equal(t, "Deep hole\nnear the school", got)
	assert.Contains(t, out.String(), "empty line to finish")

	got, err = GetMultiline(rdr("only line"), "Description", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "only line", got)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	readPassword = func(int) ([]byte, error) { return []byte("secret1"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret1"), pw)
	assert.Equal(t, "Enter password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }
	_, err = GetPassword(io.Discard)
	assert.EqualError(t, err, "not a terminal")
}

func TestChoose(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		def     common.Priority
		want    common.Priority
		wantErr bool
	}{
		{"by name", "high\n", "", common.PriorityHigh, false},
		{"by number", "1\n", "", common.PriorityLow, false},
		{"default", "\n", common.PriorityMedium, common.PriorityMedium, false},
		{"required", "\n", "", "", true},
		{"out of range", "4\n", "", "", true},
		{"unknown", "urgent\n", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := choose(rdr(tt.in), &out, "Priority", common.Priorities, tt.def, common.ParsePriority)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrorValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "1) Low, 2) Medium, 3) High")
		})
	}
}
