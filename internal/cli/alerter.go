package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// consoleAlerter prints lifecycle alerts to the terminal that triggered them.
type consoleAlerter struct {
	out io.Writer
}

func newConsoleAlerter(out io.Writer) *consoleAlerter {
	return &consoleAlerter{out: out}
}

func (a *consoleAlerter) Alert(_ context.Context, message string) error {
	_, err := fmt.Fprintln(a.out, color.New(color.FgRed, color.Bold).Sprint("ALERT: ")+message)
	return err
}
