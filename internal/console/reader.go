package console

import (
	"bufio"
	"context"
	"io"
	"sync"
)

// Reader yields lines from an io.Reader. A single goroutine scans the input so
// ReadLine can return as soon as ctx is cancelled.
type Reader struct {
	src   io.Reader
	once  sync.Once
	lines chan string
	// err is set before lines is closed
	err error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{src: r, lines: make(chan string)}
}

func (r *Reader) start() {
	go func() {
		sc := bufio.NewScanner(r.src)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			r.lines <- sc.Text()
		}
		r.err = sc.Err()
		close(r.lines)
	}()
}

// ReadLine returns the next line without its newline, io.EOF once input is
// exhausted, or ctx.Err() if ctx ends first.
func (r *Reader) ReadLine(ctx context.Context) (string, error) {
	r.once.Do(r.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-r.lines:
		if !ok {
			if r.err != nil {
				return "", r.err
			}
			return "", io.EOF
		}
		return line, nil
	}
}
