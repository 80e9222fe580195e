package core

// streaming.go provides the reader chain applied to uploaded and fetched
// table text before it is parsed:
//
//   - BOM skipping: drops a leading UTF-8 byte order mark
//   - UTF8Sanitizer: replaces invalid UTF-8 with U+FFFD
//   - CountingReader: records how many bytes were consumed
//   - limitReader: fails once a size cap is passed
//
// Use WrapForStreaming to apply the first three in the correct order.

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewBOMSkippingReader returns a reader that yields r without a leading
// UTF-8 BOM.
func NewBOMSkippingReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// UTF8Sanitizer replaces invalid UTF-8 sequences with U+FFFD as it reads.
// A multi-byte sequence split across reads of the underlying reader is
// held back until it is complete.
type UTF8Sanitizer struct {
	r     io.Reader
	chunk [4096]byte
	in    []byte // undecoded input
	out   []byte // sanitized output not yet returned
	err   error
}

// NewUTF8Sanitizer wraps r.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{r: r}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		n, err := s.r.Read(s.chunk[:])
		s.in = append(s.in, s.chunk[:n]...)
		s.err = err
		s.sanitize(err != nil)
	}

	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// sanitize moves every complete rune from in to out. At the end of input
// an incomplete trailing sequence is replaced too.
func (s *UTF8Sanitizer) sanitize(final bool) {
	in := s.in
	for len(in) > 0 {
		r, size := utf8.DecodeRune(in)
		if r == utf8.RuneError && size == 1 {
			if !final && !utf8.FullRune(in) {
				break
			}
			s.out = utf8.AppendRune(s.out, utf8.RuneError)
		} else {
			s.out = append(s.out, in[:size]...)
		}
		in = in[size:]
	}
	s.in = append(s.in[:0], in...)
}

// CountingReader tracks the bytes read through it.
type CountingReader struct {
	r         io.Reader
	BytesRead int64
}

// Read implements io.Reader.
func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.BytesRead += int64(n)
	return n, err
}

// WrapForStreaming strips a BOM, sanitizes UTF-8 and counts the bytes
// consumed, in that order.
func WrapForStreaming(r io.Reader) *CountingReader {
	return &CountingReader{r: NewUTF8Sanitizer(NewBOMSkippingReader(r))}
}

// limitReader returns at most limit bytes and then fails with
// ErrResponseTooLarge if the source has more.
type limitReader struct {
	r         io.Reader
	limit     int64
	remaining int64
}

func newLimitReader(r io.Reader, limit int64) *limitReader {
	return &limitReader{r: r, limit: limit, remaining: limit}
}

func (l *limitReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if l.remaining <= 0 {
		var probe [1]byte
		n, err := l.r.Read(probe[:])
		if n > 0 {
			return 0, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, l.limit)
		}
		return 0, err
	}

	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}
