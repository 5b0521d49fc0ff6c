package ingest

// stream.go wraps the raw submission stream before it reaches encoding/csv.
//
//   - skipBOM drops a leading UTF-8 byte order mark (Excel on Windows adds one)
//   - UTF8Sanitizer replaces invalid UTF-8 bytes with '?'
//   - CountingReader records how many bytes were consumed
//
// Use Wrap to apply them in the right order.

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM returns a reader positioned after the BOM, if one is present.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(utf8BOM))
	switch {
	case err == nil:
		if bytes.Equal(head, utf8BOM) {
			_, _ = br.Discard(len(utf8BOM))
		}
	case !errors.Is(err, io.EOF):
		// Peek has consumed the source error; replay it after the short head.
		return io.MultiReader(io.LimitReader(br, int64(len(head))), errReader{err})
	}
	return br
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

// UTF8Sanitizer is a streaming reader that replaces every byte which is not
// part of a valid UTF-8 sequence with '?'. Memory use is constant.
//
// A source error that arrives after some bytes were copied is held back and
// returned by the following Read.
type UTF8Sanitizer struct {
	src     *bufio.Reader
	pending []byte
	scratch [utf8.UTFMax]byte
	err     error
}

// NewUTF8Sanitizer wraps r.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &UTF8Sanitizer{src: br}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.pending) > 0 {
			c := copy(p[n:], s.pending)
			s.pending = s.pending[c:]
			n += c
			continue
		}

		if s.err != nil {
			break
		}
		r, size, err := s.src.ReadRune()
		if err != nil {
			s.err = err
			continue
		}

		// ReadRune reports invalid bytes as RuneError with width 1; a literal
		// U+FFFD in the input has width 3 and is kept.
		if r == utf8.RuneError && size == 1 {
			p[n] = '?'
			n++
			continue
		}

		w := utf8.EncodeRune(s.scratch[:], r)
		c := copy(p[n:], s.scratch[:w])
		n += c
		if c < w {
			s.pending = s.scratch[c:w]
		}
	}
	if n == 0 && s.err != nil {
		return 0, s.err
	}
	return n, nil
}

// CountingReader tracks the number of bytes read through it.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader wraps r.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

// Read implements io.Reader.
func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.BytesRead += int64(n)
	return n, err
}

// Wrap applies BOM skipping, then UTF-8 sanitising, then byte counting.
// The BOM has to go first: the sanitizer would otherwise pass it through as a
// valid rune and it would end up glued to the first header name.
func Wrap(r io.Reader) *CountingReader {
	return NewCountingReader(NewUTF8Sanitizer(skipBOM(r)))
}
