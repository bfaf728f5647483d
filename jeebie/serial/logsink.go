// Package serial implements the devices that can sit on the other end of the link port.
package serial

import (
	"io"
	"log/slog"

	"github.com/valerio/go-jeebie-core/jeebie/addr"
)

const (
	// transferCycles is the length of one byte transfer on the internal clock.
	transferCycles = 4096

	scStart    = 0x80
	scInternal = 0x01
	// scUnused are the SC bits that do not exist on DMG and read as 1.
	scUnused = 0x7E

	// disconnectedRX is what a transfer shifts in when nothing is plugged in.
	disconnectedRX = 0xFF
)

// LogSink is a link port with nothing attached. Every byte the guest sends is
// copied to a text log, one slog record per line, and optionally to a writer.
// Test ROMs print their results this way.
type LogSink struct {
	sb, sc byte
	// remaining ticks of the transfer in flight, 0 when idle
	pending   int
	immediate bool

	done  func()
	lines *lineLogger
	out   io.Writer
}

type LogSinkOption func(*LogSink)

// WithFixedTiming completes each transfer after 4096 ticks, as the internal
// clock does on DMG, instead of immediately.
func WithFixedTiming() LogSinkOption { return func(s *LogSink) { s.immediate = false } }

// WithLogger sets the destination of completed lines, slog.Default otherwise.
func WithLogger(l *slog.Logger) LogSinkOption {
	return func(s *LogSink) {
		if l != nil {
			s.lines.logger = l
		}
	}
}

// WithWriter mirrors every transmitted byte, unbuffered, to w.
func WithWriter(w io.Writer) LogSinkOption { return func(s *LogSink) { s.out = w } }

// NewLogSink returns an idle link port. done runs when a transfer completes
// and is expected to request the Serial interrupt.
func NewLogSink(done func(), opts ...LogSinkOption) *LogSink {
	s := &LogSink{
		immediate: true,
		done:      done,
		lines:     &lineLogger{logger: slog.Default()},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LogSink) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		if s.pending == 0 && value&(scStart|scInternal) == scStart|scInternal {
			s.transmit()
		}
	default:
		panic("serial.LogSink: invalid write address")
	}
}

func (s *LogSink) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc | scUnused
	default:
		panic("serial.LogSink: invalid read address")
	}
}

func (s *LogSink) Tick(cycles int) {
	if s.pending == 0 {
		return
	}
	s.pending -= cycles
	if s.pending <= 0 {
		s.complete()
	}
}

func (s *LogSink) Reset() {
	s.sb, s.sc = 0, 0
	s.pending = 0
	s.lines.buf = s.lines.buf[:0]
}

// Flush logs the partial line still buffered, if any.
func (s *LogSink) Flush() {
	s.lines.flush()
}

// transmit copies SB out and starts the transfer. The byte is visible to
// the log and the writer as soon as the transfer starts.
func (s *LogSink) transmit() {
	b := []byte{s.sb}
	s.lines.Write(b)
	if s.out != nil {
		_, _ = s.out.Write(b)
	}

	if s.immediate {
		s.complete()
		return
	}
	s.pending = transferCycles
}

func (s *LogSink) complete() {
	s.pending = 0
	s.sb = disconnectedRX
	s.sc &^= scStart
	if s.done != nil {
		s.done()
	}
}

// lineLogger is an io.Writer that emits one log record per line. NUL, CR
// and LF all end a line; empty lines are dropped.
type lineLogger struct {
	logger *slog.Logger
	buf    []byte
}

func (l *lineLogger) Write(p []byte) (int, error) {
	for _, b := range p {
		switch b {
		case 0, '\n', '\r':
			l.flush()
		default:
			l.buf = append(l.buf, b)
		}
	}
	return len(p), nil
}

func (l *lineLogger) flush() {
	if len(l.buf) == 0 {
		return
	}
	l.logger.Info("serial", "line", string(l.buf))
	l.buf = l.buf[:0]
}
