package link

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoBrowser is returned when no way to open a URL was found.
var ErrNoBrowser = errors.New("no browser opener available")

// Opener opens a URL outside the terminal.
type Opener interface {
	Open(url string) error
}

// BrowserOpener launches the platform's URL handler and does not wait for it.
// $BROWSER takes precedence when set.
type BrowserOpener struct {
	// lookPath is swapped in tests.
	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
}

var _ Opener = BrowserOpener{}

// Open starts the handler for url.
func (o BrowserOpener) Open(url string) error {
	look := o.lookPath
	if look == nil {
		look = exec.LookPath
	}
	start := o.start
	if start == nil {
		start = startDetached
	}

	name, args, err := browserCommand(look, runtime.GOOS, os.Getenv("BROWSER"), url)
	if err != nil {
		return err
	}
	if err := start(name, args...); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	return nil
}

func browserCommand(look func(string) (string, error), goos, browserEnv, url string) (string, []string, error) {
	if b := strings.TrimSpace(browserEnv); b != "" {
		fields := strings.Fields(b)
		return fields[0], append(fields[1:], url), nil
	}

	var candidates [][]string
	switch goos {
	case "darwin":
		candidates = [][]string{{"open"}}
	case "windows":
		candidates = [][]string{{"rundll32", "url.dll,FileProtocolHandler"}, {"cmd", "/c", "start"}}
	default:
		candidates = [][]string{{"xdg-open"}, {"wslview"}, {"open"}}
	}
	for _, c := range candidates {
		if _, err := look(c[0]); err == nil {
			return c[0], append(c[1:], url), nil
		}
	}
	return "", nil, ErrNoBrowser
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
