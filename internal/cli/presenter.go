package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TerminalPresenter shows alerts on stdout and reads yes/no answers from stdin.
type TerminalPresenter struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func newTerminalPresenter(in io.Reader, out io.Writer, assumeYes bool) *TerminalPresenter {
	return &TerminalPresenter{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

// Alert prints msg on its own line.
func (p *TerminalPresenter) Alert(msg string) {
	fmt.Fprintln(p.out, msg)
}

// Confirm asks prompt and accepts "y" or "yes". EOF counts as no.
func (p *TerminalPresenter) Confirm(prompt string) bool {
	if p.assumeYes {
		return true
	}
	fmt.Fprintf(p.out, "%s (yes/no): ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
