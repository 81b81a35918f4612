package pkgmeta

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// lineReader reads physical lines with universal-newline semantics:
// a "\r\n" terminator is returned as "\n".
type lineReader struct {
	br     *bufio.Reader
	limits Limits
	lineNo int // number of the last line returned
}

func newLineReader(r io.Reader, limits Limits) *lineReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &lineReader{br: br, limits: limits}
}

// readLine returns the next line including its terminator. At end of
// stream it returns "" and a nil error; the last line may lack a terminator.
func (lr *lineReader) readLine() (string, error) {
	var buf []byte
	for {
		chunk, err := lr.br.ReadSlice('\n')
		buf = append(buf, chunk...)
		if len(buf) > lr.limits.MaxLineLen {
			return "", fmt.Errorf("%w: line %d longer than %d bytes", ErrLimitExceeded, lr.lineNo+1, lr.limits.MaxLineLen)
		}
		if err == nil || errors.Is(err, io.EOF) {
			break
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return "", err
		}
	}
	if len(buf) == 0 {
		return "", nil
	}
	lr.lineNo++
	line := string(buf)
	if strings.HasSuffix(line, "\r\n") {
		line = line[:len(line)-2] + "\n"
	}
	return line, nil
}

// readRest returns everything after the current position.
func (lr *lineReader) readRest() (string, error) {
	var sb strings.Builder
	max := lr.limits.MaxPayloadLen
	if _, err := io.Copy(&sb, io.LimitReader(lr.br, max+1)); err != nil {
		return "", err
	}
	if int64(sb.Len()) > max {
		return "", fmt.Errorf("%w: payload longer than %d bytes", ErrLimitExceeded, max)
	}
	return strings.ReplaceAll(sb.String(), "\r\n", "\n"), nil
}

// splitHeader splits a header line on its first colon.
func splitHeader(line string) (key, rest string, ok bool) {
	return strings.Cut(line, ":")
}

// isContinuation reports whether line continues the previous field.
func isContinuation(line string) bool {
	return strings.HasPrefix(line, " ")
}

// isSeparator reports whether line ends the header block.
func isSeparator(line string) bool {
	return line == "\n"
}
