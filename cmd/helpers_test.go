package cmd

import (
	"bytes"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/pterm/pterm"
)

// syncBuffer is a bytes.Buffer safe for the spinner's background writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var outBuf *syncBuffer

// setupStdoutCapture routes pterm output into outBuf for the test.
func setupStdoutCapture(t *testing.T) {
	t.Helper()
	outBuf = &syncBuffer{}
	routePrinters(t, outBuf)
}

// routePrinters points pterm's default output, its message printers and the
// spinner at w, and restores them when the test ends. The message printers
// and the spinner keep their own writers, so SetDefaultOutput alone misses
// them.
func routePrinters(t *testing.T, w io.Writer) {
	t.Helper()
	printers := []*pterm.PrefixPrinter{&pterm.Info, &pterm.Success, &pterm.Warning, &pterm.Error, &pterm.Debug}
	saved := make([]io.Writer, len(printers))
	for i, p := range printers {
		saved[i] = p.Writer
		p.Writer = w
	}
	savedSpinner := pterm.DefaultSpinner.Writer
	pterm.DefaultSpinner.Writer = w

	pterm.SetDefaultOutput(w)
	pterm.DisableStyling()
	t.Cleanup(func() {
		for i, p := range printers {
			p.Writer = saved[i]
		}
		pterm.DefaultSpinner.Writer = savedSpinner
		pterm.SetDefaultOutput(os.Stdout)
		pterm.EnableStyling()
	})
}

// captureStdout redirects os.Stdout and returns a func that restores it and
// yields what was written.
func captureStdout(t *testing.T) func() string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	t.Cleanup(func() {
		os.Stdout = oldStdout
	})

	return func() string {
		w.Close()
		os.Stdout = oldStdout
		var stdoutBuf bytes.Buffer
		_, _ = io.Copy(&stdoutBuf, r)
		return stdoutBuf.String()
	}
}

// instantClock advances whenever something waits on it.
type instantClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *instantClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *instantClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}
