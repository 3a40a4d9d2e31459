package intake

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// Opener hands a deep link to whatever can open it.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, url string) error

func (f OpenerFunc) Open(ctx context.Context, url string) error {
	return f(ctx, url)
}

// WriterOpener prints the link, one per line.
type WriterOpener struct {
	W io.Writer
}

func (o WriterOpener) Open(_ context.Context, url string) error {
	if o.W == nil {
		return nil
	}
	_, err := fmt.Fprintln(o.W, url)
	return err
}

// BrowserOpener launches the platform URL handler and does not wait for it.
type BrowserOpener struct {
	// GOOS overrides runtime.GOOS.
	GOOS string
}

func (o BrowserOpener) Open(_ context.Context, url string) error {
	name, args := o.command(url)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("intake: start %s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (o BrowserOpener) command(url string) (string, []string) {
	goos := o.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

var (
	_ Opener = OpenerFunc(nil)
	_ Opener = WriterOpener{}
	_ Opener = BrowserOpener{}
)
