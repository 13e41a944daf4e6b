// Package clipboard writes prompt text to the user's clipboard, either
// through the desktop clipboard or an OSC 52 terminal escape.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	atotto "github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

const (
	ModeAuto   = "auto"
	ModeSystem = "system"
	ModeOSC52  = "osc52"
)

type Writer interface {
	Write(text string) error
}

// System writes through the desktop clipboard (pbcopy, xclip, wl-copy, ...).
type System struct{}

func (System) Write(text string) error {
	if atotto.Unsupported {
		return fmt.Errorf("system clipboard unsupported on this platform")
	}
	if err := atotto.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write system clipboard: %w", err)
	}
	return nil
}

// OSC52 asks the terminal to set its clipboard, which also works over SSH.
type OSC52 struct {
	Out  io.Writer
	Tmux bool
}

func (o OSC52) Write(text string) error {
	seq := osc52.New(text)
	if o.Tmux {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(o.Out); err != nil {
		return fmt.Errorf("failed to write OSC 52 sequence: %w", err)
	}
	return nil
}

// Fallback tries each writer in order and stops at the first success.
type Fallback []Writer

func (f Fallback) Write(text string) error {
	var errs []error
	for _, w := range f {
		err := w.Write(text)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return fmt.Errorf("no clipboard writers configured")
	}
	return errors.Join(errs...)
}

// New returns the writer for mode. OSC 52 output goes to out, usually the
// controlling terminal's stderr.
func New(mode string, out io.Writer) (Writer, error) {
	osc := OSC52{Out: out, Tmux: os.Getenv("TMUX") != ""}

	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeAuto, "":
		if os.Getenv("SSH_TTY") != "" {
			return Fallback{osc, System{}}, nil
		}
		return Fallback{System{}, osc}, nil
	case ModeSystem:
		return System{}, nil
	case ModeOSC52:
		return osc, nil
	default:
		return nil, fmt.Errorf("unknown clipboard mode %q", mode)
	}
}
