package ingest

import (
	"bufio"
	"errors"
	"io"
)

// maxLineLength bounds a line that never sees its terminator.
const maxLineLength = 1024

var errLineTooLong = errors.New("line exceeds maximum length, discarded")

// lineReader frames newline-terminated lines. A read error in the middle of a
// line keeps the bytes received so far, so a timeout does not split a line.
type lineReader struct {
	r          *bufio.Reader
	partial    []byte
	discarding bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 256)}
}

func (lr *lineReader) readLine() (string, error) {
	for {
		chunk, err := lr.r.ReadSlice('\n')
		complete := err == nil

		if lr.discarding {
			if complete {
				lr.discarding = false
			}
		} else {
			lr.partial = append(lr.partial, chunk...)
			if len(lr.partial) > maxLineLength {
				lr.partial = lr.partial[:0]
				lr.discarding = !complete
				return "", errLineTooLong
			}
			if complete {
				return lr.take(), nil
			}
		}

		switch {
		case err == nil, errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && len(lr.partial) > 0:
			return lr.take(), nil
		default:
			return "", err
		}
	}
}

func (lr *lineReader) take() string {
	line := string(lr.partial)
	lr.partial = lr.partial[:0]
	return line
}
