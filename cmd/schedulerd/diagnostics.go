// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// loadError is a source-annotated diagnostic for a failed users/slots/tasks
// load: the file path, the line/column it failed at, and a one-line
// snippet of the offending source, in the spirit of the original server's
// miette labeled spans.
type loadError struct {
	kind string // "user", "task", or "slot"
	path string
	line int
	col  int
	snip string
	err  error
}

func (e *loadError) Error() string {
	if e.snip == "" {
		return fmt.Sprintf("could not load %s data from %s: %v", e.kind, e.path, e.err)
	}
	marker := strings.Repeat(" ", max(e.col-1, 0)) + "^"
	return fmt.Sprintf("could not parse %s file\n   ╭─[%s:%d:%d]\n   │ %s\n   │ %s\n   ╰─ %v",
		e.kind, e.path, e.line, e.col, e.snip, marker, e.err)
}

func (e *loadError) Unwrap() error { return e.err }

// newLoadError builds a loadError for a failure loading path. When cause is
// a JSON syntax or type error, it locates the offending line/column and
// attaches a one-line snippet; otherwise it reports the bare error.
func newLoadError(kind, path string, cause error) *loadError {
	le := &loadError{kind: kind, path: path, err: cause}

	offset, ok := jsonErrorOffset(cause)
	if !ok {
		return le
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return le
	}

	line, col := lineAndColumnAt(data, offset)
	le.line, le.col = line, col

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for n := 1; scanner.Scan(); n++ {
		if n == line {
			le.snip = scanner.Text()
			break
		}
	}
	return le
}

func jsonErrorOffset(err error) (int64, bool) {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Offset, true
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Offset, true
	}
	return 0, false
}

func lineAndColumnAt(data []byte, offset int64) (line, col int) {
	line = 1
	col = 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
