package session

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// DiagnosticSink persists the screenshot of a failed test.
type DiagnosticSink interface {
	// Capture stores png for the named test and returns where it went.
	Capture(name string, png []byte) (string, error)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SanitizeName turns a test name into a file name fragment.
func SanitizeName(name string) string {
	s := unsafeChars.ReplaceAllString(name, "_")
	if s == "" || s == "." || s == ".." {
		return "unnamed"
	}
	return s
}

// FileSink writes failure_<name>.png files into Dir.
type FileSink struct {
	Dir string
}

// NewFileSink creates a sink writing into dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

// Capture implements DiagnosticSink.
func (s *FileSink) Capture(name string, png []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshots directory: %w", err)
	}
	path := filepath.Join(s.Dir, "failure_"+SanitizeName(name)+".png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}
