package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/citycare/citycare/internal/common"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// readLine returns the next line without its line ending. A final line
// without a newline is returned as is; io.EOF is only reported when nothing
// was read.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// GetSimpleText shows prompt followed by a "> " cursor and reads one
// trimmed line.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := readLine(reader)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a password from the terminal without echo. The caller
// wipes the returned slice.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline reads lines until an empty one (or EOF) and joins them with
// '\n'. Used for report descriptions.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := readLine(reader)
		if err != nil || line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// choose asks for one of options, accepted by 1-based number or by name
// through parse. An empty answer picks def unless def is empty.
func choose[T ~string](reader *bufio.Reader, w io.Writer, label string, options []T, def T, parse func(string) (T, error)) (T, error) {
	prompt := label + " (" + numbered(options) + ")"
	if def != "" {
		prompt += " [" + string(def) + "]"
	}
	raw, err := getSimpleText(reader, prompt, w)
	if err != nil {
		return "", err
	}
	if raw == "" {
		if def != "" {
			return def, nil
		}
		return "", fmt.Errorf("%w: %s is required", common.ErrorValidation, strings.ToLower(label))
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 1 || n > len(options) {
			return "", fmt.Errorf("%w: choose 1-%d", common.ErrorValidation, len(options))
		}
		return options[n-1], nil
	}
	return parse(raw)
}

func numbered[T ~string](options []T) string {
	parts := make([]string, len(options))
	for i, o := range options {
		parts[i] = fmt.Sprintf("%d) %s", i+1, o)
	}
	return strings.Join(parts, ", ")
}
