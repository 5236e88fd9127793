// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal provides utilities for terminal operations such as clearing text.
package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const defaultWidth = 80

// ClearPreviousLines clears textLength characters of already printed text from
// stdout, e.g. an answered password prompt.
func ClearPreviousLines(textLength int) {
	ClearLines(os.Stdout, textLength, Width(os.Stdout))
}

// Width returns the width of f when it is a terminal, or 80.
func Width(f *os.File) int {
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		return width
	}
	return defaultWidth
}

// ClearLines writes the ANSI sequences that erase textLength characters wrapped
// at width, plus the empty line the cursor sits on after Enter.
func ClearLines(w io.Writer, textLength, width int) {
	n := LinesFor(textLength, width) + 1
	for i := 0; i < n; i++ {
		fmt.Fprint(w, "\r\x1b[2K") // start of line, clear it
		if i < n-1 {
			fmt.Fprint(w, "\x1b[1A") // up one line
		}
	}
}

// LinesFor reports how many terminal rows textLength characters occupy.
func LinesFor(textLength, width int) int {
	if width <= 0 {
		width = defaultWidth
	}
	if textLength <= 0 {
		return 1
	}
	return (textLength + width - 1) / width
}
