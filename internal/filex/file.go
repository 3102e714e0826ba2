// Package filex contains small filesystem helpers used by the CLI.
package filex

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxImageSize caps images attached to a report.
const MaxImageSize = 5 << 20

// EnsureDataDir makes sure the directory holding the client's local state
// exists and returns its absolute path. Relative names resolve against the
// working directory.
func EnsureDataDir(name string) (string, error) {
	dir, err := filepath.Abs(name)
	if err != nil {
		return "", fmt.Errorf("data dir %q: %w", name, err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("data dir %s: %w", dir, err)
	}
	return dir, nil
}

// ImageReference turns user input into a value for a report's image field.
// Remote URLs and data URIs are returned unchanged; anything else is read as
// a local image file and inlined as a base64 data URI.
func ImageReference(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	lower := strings.ToLower(input)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "data:") {
		return input, nil
	}

	info, err := os.Stat(input)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", input, err)
	}
	if info.Size() > MaxImageSize {
		return "", fmt.Errorf("image %s is larger than %d bytes", input, MaxImageSize)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", input, err)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", input, mime)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
