package trace

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends events to a trace file. Call events are buffered; the
// buffer is flushed at every test and run boundary, so the file is complete up
// to the last finished test even if the process dies inside a hung HAL call.
//
// Log never fails. The first write error is kept, later events are dropped,
// and Close reports it.
type FileLogger struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	buf    *bufio.Writer
	enc    *cbor.Encoder
	events int
	err    error
	closed bool
}

// NewFileLogger opens path for appending, creating it with mode 0644.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	return &FileLogger{path: path, file: f, buf: buf, enc: NewEncoder(buf)}, nil
}

// Log appends event.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.err != nil {
		return
	}

	if err := l.enc.Encode(event); err != nil {
		l.err = fmt.Errorf("trace %s: encode %s event: %w", l.path, event.Category, err)
		return
	}
	l.events++

	if event.Category != CategoryCall {
		if err := l.buf.Flush(); err != nil {
			l.err = fmt.Errorf("trace %s: %w", l.path, err)
		}
	}
}

// Path returns the trace file path.
func (l *FileLogger) Path() string { return l.path }

// Events returns how many events have been written.
func (l *FileLogger) Events() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events
}

// Close flushes and closes the file and returns the first write error, if
// any. Later calls return nil and later events are ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true

	if l.err == nil {
		if err := l.buf.Flush(); err != nil {
			l.err = fmt.Errorf("trace %s: %w", l.path, err)
		}
	}
	return errors.Join(l.err, l.file.Close())
}

var _ Logger = (*FileLogger)(nil)
