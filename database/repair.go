package database

import (
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// RepairValue decodes v if it is a printed byte string literal like
// b'Pra\xc3\xa7a'. The decoded bytes are returned as UTF-8 if they are
// valid UTF-8, otherwise they are decoded as ISO-8859-1. All other
// values are returned unchanged.
func RepairValue(v string) string {
	if len(v) < 3 || v[0] != 'b' {
		return v
	}
	quote := v[1]
	if (quote != '\'' && quote != '"') || v[len(v)-1] != quote {
		return v
	}
	raw, ok := unescapeBytes(v[2 : len(v)-1])
	if !ok {
		return v
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return v
	}
	return string(s)
}

// RepairRow repairs all values of row in place.
func RepairRow(row []string) []string {
	for i := range row {
		row[i] = RepairValue(row[i])
	}
	return row
}

func unescapeBytes(s string) ([]byte, bool) {
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			buf = append(buf, c)
			continue
		}
		i++
		if i == len(s) {
			return nil, false
		}
		switch s[i] {
		case '\\', '\'', '"':
			buf = append(buf, s[i])
		case 'n':
			buf = append(buf, '\n')
		case 'r':
			buf = append(buf, '\r')
		case 't':
			buf = append(buf, '\t')
		case 'a':
			buf = append(buf, '\a')
		case 'b':
			buf = append(buf, '\b')
		case 'f':
			buf = append(buf, '\f')
		case 'v':
			buf = append(buf, '\v')
		case 'x':
			if i+3 > len(s) {
				return nil, false
			}
			n, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return nil, false
			}
			buf = append(buf, byte(n))
			i += 2
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			n, err := strconv.ParseUint(s[i:j], 8, 16)
			if err != nil || n > 0xff {
				return nil, false
			}
			buf = append(buf, byte(n))
			i = j - 1
		default:
			// unknown escapes are kept
			buf = append(buf, '\\', s[i])
		}
	}
	return buf, true
}
