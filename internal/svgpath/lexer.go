package svgpath

import (
	"fmt"
	"strconv"
)

// scanner reads commands and numbers from SVG path data. Numbers may run
// together ("10-5", "1.5.5") as the path grammar allows.
type scanner struct {
	s   string
	pos int
}

func (sc *scanner) skipSeparators() {
	for sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.pos++
		default:
			return
		}
	}
}

func (sc *scanner) done() bool {
	sc.skipSeparators()
	return sc.pos >= len(sc.s)
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's',
		'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

// peekCommand reports the command letter at the cursor, if any.
func (sc *scanner) peekCommand() (byte, bool) {
	sc.skipSeparators()
	if sc.pos < len(sc.s) && isCommand(sc.s[sc.pos]) {
		return sc.s[sc.pos], true
	}
	return 0, false
}

// peekNumber reports whether a number starts at the cursor.
func (sc *scanner) peekNumber() bool {
	sc.skipSeparators()
	if sc.pos >= len(sc.s) {
		return false
	}
	c := sc.s[sc.pos]
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func (sc *scanner) number() (float64, error) {
	sc.skipSeparators()
	start := sc.pos
	i := sc.pos
	if i < len(sc.s) && (sc.s[i] == '+' || sc.s[i] == '-') {
		i++
	}
	digits, dot := false, false
mantissa:
	for i < len(sc.s) {
		c := sc.s[i]
		switch {
		case c >= '0' && c <= '9':
			digits = true
		case c == '.' && !dot:
			dot = true
		default:
			break mantissa
		}
		i++
	}
	if digits && i < len(sc.s) && (sc.s[i] == 'e' || sc.s[i] == 'E') {
		j := i + 1
		if j < len(sc.s) && (sc.s[j] == '+' || sc.s[j] == '-') {
			j++
		}
		if j < len(sc.s) && sc.s[j] >= '0' && sc.s[j] <= '9' {
			for j < len(sc.s) && sc.s[j] >= '0' && sc.s[j] <= '9' {
				j++
			}
			i = j
		}
	}
	if !digits {
		return 0, fmt.Errorf("expected number at offset %d in %q", start, truncate(sc.s, 40))
	}
	v, err := strconv.ParseFloat(sc.s[start:i], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", sc.s[start:i], err)
	}
	sc.pos = i
	return v, nil
}

// flag reads an arc flag, which may be a single digit with no separator.
func (sc *scanner) flag() (bool, error) {
	sc.skipSeparators()
	if sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case '0':
			sc.pos++
			return false, nil
		case '1':
			sc.pos++
			return true, nil
		}
	}
	return false, fmt.Errorf("expected arc flag at offset %d", sc.pos)
}

func (sc *scanner) numbers(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		v, err := sc.number()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
