// Package daylog records a run as zstd-compressed JSON lines: one header
// line followed by one line per delivered day.
package daylog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"outbreak/internal/driver"
	"outbreak/internal/outbreak"
)

// FormatVersion is written into every header.
const FormatVersion = 1

// ErrDayOrder reports a log whose days are not consecutive.
var ErrDayOrder = errors.New("daylog: days out of order")

// Header describes the run a log belongs to.
type Header struct {
	Version    int             `json:"version"`
	Population int             `json:"population"`
	Seed       int64           `json:"seed"`
	Params     outbreak.Params `json:"params"`
}

// HeaderFor builds the header of a run started from cfg.
func HeaderFor(cfg outbreak.Config) Header {
	return Header{Version: FormatVersion, Population: cfg.Population, Seed: cfg.Seed, Params: cfg.Params}
}

// Writer is a driver consumer appending each day to a compressed log.
type Writer struct {
	mu     sync.Mutex
	closer io.Closer
	enc    *zstd.Encoder
	w      *bufio.Writer
}

// Create opens path, creating parent directories, and writes hdr.
func Create(path string, hdr Header) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := newWriter(f, f, hdr)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

// NewWriter writes hdr to dst and returns a writer for the days that follow.
// Closing the writer does not close dst.
func NewWriter(dst io.Writer, hdr Header) (*Writer, error) {
	return newWriter(dst, nil, hdr)
}

func newWriter(dst io.Writer, closer io.Closer, hdr Header) (*Writer, error) {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	w := &Writer{closer: closer, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}
	if hdr.Version == 0 {
		hdr.Version = FormatVersion
	}
	if err := w.writeLine(hdr); err != nil {
		_ = enc.Close()
		return nil, err
	}
	return w, nil
}

// Consume appends res.
func (w *Writer) Consume(res outbreak.DayResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeLine(res)
}

// Finish flushes and closes the log once the run resolves.
func (w *Writer) Finish(driver.Summary) error { return w.Close() }

// Close flushes buffered days and finishes the zstd frame.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.enc == nil {
		return nil
	}
	var firstErr error
	if err := w.w.Flush(); err != nil {
		firstErr = err
	}
	if err := w.enc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if w.closer != nil {
		if err := w.closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	w.enc = nil
	w.w = nil
	return firstErr
}

func (w *Writer) writeLine(v any) error {
	if w.w == nil {
		return fmt.Errorf("daylog: write after close")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Reader iterates over a log written by Writer.
type Reader struct {
	dec    *zstd.Decoder
	sc     *bufio.Scanner
	hdr    Header
	last   int
	closer io.Closer
}

// Open opens the log at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := newReader(f, f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

// NewReader reads a log from src and decodes its header.
func NewReader(src io.Reader) (*Reader, error) {
	return newReader(src, nil)
}

func newReader(src io.Reader, closer io.Closer) (*Reader, error) {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, err
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	r := &Reader{dec: dec, sc: sc, last: -1, closer: closer}
	if !sc.Scan() {
		dec.Close()
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("daylog: header: %w", err)
		}
		return nil, fmt.Errorf("daylog: missing header")
	}
	if err := json.Unmarshal(sc.Bytes(), &r.hdr); err != nil {
		dec.Close()
		return nil, fmt.Errorf("daylog: header: %w", err)
	}
	if r.hdr.Version != FormatVersion {
		dec.Close()
		return nil, fmt.Errorf("daylog: unsupported version %d", r.hdr.Version)
	}
	return r, nil
}

// Header returns the run description.
func (r *Reader) Header() Header { return r.hdr }

// Next returns the following day, or io.EOF after the last one.
func (r *Reader) Next() (outbreak.DayResult, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return outbreak.DayResult{}, err
		}
		return outbreak.DayResult{}, io.EOF
	}
	var res outbreak.DayResult
	if err := json.Unmarshal(r.sc.Bytes(), &res); err != nil {
		return outbreak.DayResult{}, fmt.Errorf("daylog: day after %d: %w", r.last, err)
	}
	if r.last >= 0 && res.Day != r.last+1 {
		return outbreak.DayResult{}, fmt.Errorf("%w: want=%d got=%d", ErrDayOrder, r.last+1, res.Day)
	}
	r.last = res.Day
	return res, nil
}

// Close releases the decoder and the underlying file, if any.
func (r *Reader) Close() error {
	r.dec.Close()
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// ReadAll loads every day of the log at path.
func ReadAll(path string) (Header, []outbreak.DayResult, error) {
	r, err := Open(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer r.Close()

	var days []outbreak.DayResult
	for {
		res, err := r.Next()
		if errors.Is(err, io.EOF) {
			return r.Header(), days, nil
		}
		if err != nil {
			return r.Header(), days, err
		}
		days = append(days, res)
	}
}
