package location

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ConfigGate answers every permission request with a fixed result
type ConfigGate struct {
	Result PermissionResult
}

func (g ConfigGate) Request(ctx context.Context, kind string) (PermissionResult, error) {
	return g.Result, nil
}

// PromptGate asks the user on a terminal.
// Input that is not a terminal counts as a refusal.
type PromptGate struct {
	In  io.Reader
	Out io.Writer
	// IsTerminal reports whether In is interactive
	IsTerminal func() bool
}

// NewPromptGate creates a gate reading answers from stdin
func NewPromptGate() *PromptGate {
	return &PromptGate{
		In:         os.Stdin,
		Out:        os.Stderr,
		IsTerminal: func() bool { return isTerminal(os.Stdin) },
	}
}

func (g *PromptGate) Request(ctx context.Context, kind string) (PermissionResult, error) {
	if g.IsTerminal != nil && !g.IsTerminal() {
		return PermissionDenied, nil
	}

	fmt.Fprintf(g.Out, "Allow SkyScout to use your location (%s)? [y/N] ", kind)

	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(g.In).ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		return PermissionDenied, ctx.Err()
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return PermissionGranted, nil
		default:
			return PermissionDenied, nil
		}
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewGate builds the permission gate selected by mode: granted, denied or prompt
func NewGate(mode string) (PermissionGate, error) {
	switch mode {
	case "granted":
		return ConfigGate{Result: PermissionGranted}, nil
	case "denied":
		return ConfigGate{Result: PermissionDenied}, nil
	case "prompt":
		return NewPromptGate(), nil
	default:
		return nil, fmt.Errorf("unknown permission mode %q", mode)
	}
}
