package audit

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/system"
)

// ReadLines returns every line of the log at path. A missing log has no
// lines.
func ReadLines(fsys system.FileSystem, path string) ([]string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read log: %w", err)
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("error reading log: %w", err)
	}
	return lines, nil
}

// Tail returns at most the last n lines of the log at path. n <= 0
// returns every line.
func Tail(fsys system.FileSystem, path string, n int) ([]string, error) {
	lines, err := ReadLines(fsys, path)
	if err != nil || n <= 0 || len(lines) <= n {
		return lines, err
	}
	return lines[len(lines)-n:], nil
}

// LastLine returns the final line of the log at path, or "" if it is
// empty or missing.
func LastLine(fsys system.FileSystem, path string) (string, error) {
	lines, err := Tail(fsys, path, 1)
	if err != nil || len(lines) == 0 {
		return "", err
	}
	return lines[0], nil
}

// Lines returns every line written so far.
func (l *Logger) Lines() ([]string, error) {
	return ReadLines(l.fs, l.path)
}

// LastLine returns the most recent line.
func (l *Logger) LastLine() (string, error) {
	return LastLine(l.fs, l.path)
}
