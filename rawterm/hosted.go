// Package rawterm puts the controlling terminal in raw mode so single key
// presses can be read without waiting for enter. It is intended only for use
// by the example programs.
//
// While the terminal is raw, output must use CRLF line endings; Writer does
// that conversion.
package rawterm

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh/terminal"
)

// Term is a terminal in raw mode.
type Term struct {
	fd    int
	state *terminal.State
	in    *bufio.Reader
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return terminal.IsTerminal(int(f.Fd()))
}

// Configure initializes stdin for raw reading. It must be restored after use
// with Restore:
//
//	t, err := rawterm.Configure()
//	if err != nil {
//		return err
//	}
//	defer t.Restore()
func Configure() (*Term, error) {
	fd := int(os.Stdin.Fd())
	if !terminal.IsTerminal(fd) {
		return nil, errors.New("rawterm: stdin is not a terminal")
	}
	state, err := terminal.MakeRaw(fd)
	if err != nil {
		return nil, errors.Wrap(err, "rawterm: make raw")
	}
	return &Term{fd: fd, state: state, in: bufio.NewReader(os.Stdin)}, nil
}

// Restore puts the terminal back in the state it was in before Configure.
func (t *Term) Restore() error {
	return terminal.Restore(t.fd, t.state)
}

// Getchar returns a single character from stdin. Newlines are encoded with a
// single LF ('\n').
func (t *Term) Getchar() (byte, error) {
	b, err := t.in.ReadByte()
	if err != nil {
		return 0, err
	}
	if b == '\r' {
		return '\n', nil
	}
	return b, nil
}

// Keys delivers key presses until ctx is done or stdin fails. The reading
// goroutine may outlive ctx until the next key press.
func (t *Term) Keys(ctx context.Context) <-chan byte {
	ch := make(chan byte)
	go func() {
		defer close(ch)
		for {
			b, err := t.Getchar()
			if err != nil {
				return
			}
			select {
			case ch <- b:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// Writer returns a writer that turns every LF into CRLF, as terminals in raw
// mode expect.
func Writer(w io.Writer) io.Writer {
	return crlfWriter{w}
}

type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	out := make([]byte, 0, len(p)+8)
	for _, b := range p {
		if b == '\n' {
			// Terminals expect CRLF.
			out = append(out, '\r')
		}
		out = append(out, b)
	}
	if _, err := c.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
