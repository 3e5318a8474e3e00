package notifierlog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/quakewatch/quakewatch/internal/domain"
)

// TimeFormat is the layout of the frame header timestamp
const TimeFormat = "2006-01-02T15:04:05.000000Z"

// MaxFrameSize is the largest payload a frame header may announce
const MaxFrameSize = 16 << 20

const frameMarker = "####"

// Frame is one recorded notifier message
type Frame struct {
	Time    time.Time
	Payload []byte
}

// WriteFrame writes the frame as a header line followed by the payload and a newline
func WriteFrame(w io.Writer, f Frame) error {
	header := fmt.Sprintf("%s %d %s\n", frameMarker, len(f.Payload), f.Time.UTC().Format(TimeFormat))
	buf := make([]byte, 0, len(header)+len(f.Payload)+1)
	buf = append(buf, header...)
	buf = append(buf, f.Payload...)
	buf = append(buf, '\n')

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Reader reads frames sequentially
type Reader struct {
	r    *bufio.Reader
	line int
}

// NewReader creates a frame reader
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next frame, or io.EOF when the input ends cleanly
func (r *Reader) Next() (Frame, error) {
	header, err := r.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && header == "" {
			return Frame{}, io.EOF
		}
		if !errors.Is(err, io.EOF) {
			return Frame{}, fmt.Errorf("failed to read frame header: %w", err)
		}
	}
	r.line++

	fields := strings.Fields(header)
	if len(fields) != 3 || fields[0] != frameMarker {
		return Frame{}, fmt.Errorf("%w: line %d: bad header %q", domain.ErrMalformedFrame, r.line, strings.TrimSpace(header))
	}

	size, err := strconv.Atoi(fields[1])
	if err != nil || size < 0 {
		return Frame{}, fmt.Errorf("%w: line %d: bad size %q", domain.ErrMalformedFrame, r.line, fields[1])
	}
	if size > MaxFrameSize {
		return Frame{}, fmt.Errorf("%w: line %d: size %d exceeds %d bytes", domain.ErrMalformedFrame, r.line, size, MaxFrameSize)
	}

	ts, err := time.Parse(TimeFormat, fields[2])
	if err != nil {
		return Frame{}, fmt.Errorf("%w: line %d: bad timestamp %q", domain.ErrMalformedFrame, r.line, fields[2])
	}

	// the buffer grows with the bytes actually present, not with the announced size
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r.r, int64(size)); err != nil {
		return Frame{}, fmt.Errorf("%w: line %d: truncated payload: %v", domain.ErrMalformedFrame, r.line, err)
	}
	payload := buf.Bytes()
	r.line += strings.Count(string(payload), "\n")

	// trailing newline; a missing one at the end of the file is tolerated
	if b, err := r.r.ReadByte(); err == nil {
		if b != '\n' {
			return Frame{}, fmt.Errorf("%w: line %d: payload longer than %d bytes", domain.ErrMalformedFrame, r.line, size)
		}
		r.line++
	}

	return Frame{Time: ts, Payload: payload}, nil
}
