package protocol

import (
	"bytes"
	"strings"
)

// MaxLine is the longest accepted command line, terminator excluded.
const MaxLine = 220

// LineStatus is the result of feeding one byte to a LineAssembler.
type LineStatus int

const (
	Partial LineStatus = iota
	Complete
	TooLong
)

// LineAssembler collects bytes into newline terminated lines. A carriage
// return directly before the newline is stripped. A line over Max bytes is discarded in full and
// reported as TooLong once its terminator arrives.
type LineAssembler struct {
	Max      int
	buf      []byte
	overflow bool
}

func (a *LineAssembler) max() int {
	if a.Max <= 0 {
		return MaxLine
	}
	return a.Max
}

func (a *LineAssembler) Feed(c byte) (string, LineStatus) {
	if c == '\n' {
		line, overflow := string(bytes.TrimSuffix(a.buf, []byte{'\r'})), a.overflow
		a.buf = a.buf[:0]
		a.overflow = false
		if overflow {
			return "", TooLong
		}
		return line, Complete
	}

	if a.overflow {
		return "", Partial
	}
	// one byte of slack for the CR of a full length line
	if len(a.buf) > a.max() || (len(a.buf) == a.max() && c != '\r') {
		a.overflow = true
		a.buf = a.buf[:0]
		return "", Partial
	}
	a.buf = append(a.buf, c)
	return "", Partial
}

// Fields splits a line on commas and trims the blanks around every field.
func Fields(line string) []string {
	f := strings.Split(line, ",")
	for i := range f {
		f[i] = strings.TrimSpace(f[i])
	}
	return f
}

// Atoi parses a leading optionally signed decimal number and ignores
// whatever follows it. Anything unparsable is zero.
func Atoi(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n < 1<<20 {
			n = n*10 + int(s[i]-'0')
		}
	}
	if neg {
		return -n
	}
	return n
}
