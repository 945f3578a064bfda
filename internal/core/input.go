package core

// input.go normalises raw pasted or uploaded text before parsing.
//
// Text copied out of Windows spreadsheet programs may start with a UTF-8 BOM
// and occasionally carries stray bytes that are not valid UTF-8. The reader
// chain strips the BOM and replaces invalid sequences with U+FFFD so the
// parser only ever sees clean text.

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrInputTooLarge is returned when input exceeds the configured limit.
	ErrInputTooLarge = errors.New("input too large")

	// ErrInvalidRequest marks a submission whose body could not be decoded.
	ErrInvalidRequest = errors.New("invalid request")
)

// NewInputReader wraps r so that a leading BOM is dropped and invalid UTF-8
// is replaced.
func NewInputReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ReadInput reads all of r through NewInputReader. A positive limit caps the
// number of raw bytes accepted; larger input fails with ErrInputTooLarge.
func ReadInput(r io.Reader, limit int64) (string, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	counter := &countingReader{reader: r}
	data, err := io.ReadAll(NewInputReader(counter))
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if limit > 0 && counter.n > limit {
		return "", fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, limit)
	}
	return string(data), nil
}

// countingReader tracks raw bytes read before decoding.
type countingReader struct {
	reader io.Reader
	n      int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.n += int64(n)
	return n, err
}
