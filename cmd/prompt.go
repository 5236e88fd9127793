// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"edupass/cli/internal/terminal"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// prompter reads answers from stdin. Secrets are read without echo when stdin
// is a terminal and as plain lines otherwise, so input can be piped.
type prompter struct {
	in          *bufio.Reader
	out         io.Writer
	fd          int
	interactive bool
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok {
		p.fd = int(f.Fd())
		p.interactive = term.IsTerminal(p.fd)
	}
	return p
}

// line prints label and returns the trimmed answer.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// secret prints label and reads a value without echoing it. The prompt line is
// cleared afterwards.
func (p *prompter) secret(label string) (string, error) {
	if !p.interactive {
		s, err := p.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && s != "") {
			return "", err
		}
		return strings.TrimRight(s, "\r\n"), nil
	}

	fmt.Fprint(p.out, label)
	b, err := readPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	terminal.ClearPreviousLines(len(label))
	return string(b), nil
}

// valueOrPrompt returns v when set, otherwise asks for it.
func (p *prompter) valueOrPrompt(v, label string) (string, error) {
	if v = strings.TrimSpace(v); v != "" {
		return v, nil
	}
	return p.line(label)
}
