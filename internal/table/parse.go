package table

// parse.go splits delimited text into cells.
//
// Format selection is per line: an explicit TSV format or a literal tab
// splits on tabs; an explicit CSV format or a comma runs the quoted parser;
// anything else is a single cell.

import (
	"fmt"
	"strings"
)

// Format selects how a line of text is split into cells.
type Format int

const (
	FormatAuto Format = iota
	FormatCSV
	FormatTSV
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	default:
		return "auto"
	}
}

// ParseFormat converts "csv", "tsv" or "auto" (case-insensitive, empty means auto).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	default:
		return FormatAuto, fmt.Errorf("%w: unknown format %q", ErrUnrecognizedInput, s)
	}
}

// ParseLine splits one line of text into raw cell strings.
func ParseLine(line string, f Format) ([]string, error) {
	switch {
	case f == FormatTSV || strings.ContainsRune(line, '\t'):
		return strings.Split(line, "\t"), nil
	case f == FormatCSV || strings.ContainsRune(line, ','):
		return splitQuoted(line)
	default:
		return []string{line}, nil
	}
}

// ParseText splits text into lines and lines into cells, coercing
// numeric-looking cells to numbers. Blank lines are skipped.
func ParseText(text string, f Format) ([][]Value, error) {
	lines := strings.Split(text, "\n")
	rows := make([][]Value, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		cells, err := ParseLine(line, f)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		rows = append(rows, Values(cells...))
	}

	return rows, nil
}

// looksLikeHeader reports whether a parsed line should be taken as the
// header row: none of its cells may be numeric. A data line made only of
// words is misread as headers; callers that know better pass HeadersAbsent.
func looksLikeHeader(row []Value) bool {
	for _, v := range row {
		if v.IsNumber() {
			return false
		}
	}
	return true
}

// splitQuoted parses a comma-separated line. Fields may be wrapped in
// single or double quotes; inside a quoted field a backslash escapes the
// matching quote. Unquoted fields run to the next comma and are trimmed.
// A trailing comma yields a final empty cell.
func splitQuoted(line string) ([]string, error) {
	var cells []string
	n := len(line)
	i := 0

	for {
		for i < n && isBlank(line[i]) {
			i++
		}

		if i < n && (line[i] == '"' || line[i] == '\'') {
			quote := line[i]
			start := i
			i++

			var b strings.Builder
			closed := false
			for i < n {
				c := line[i]
				if c == '\\' && i+1 < n {
					if line[i+1] != quote {
						b.WriteByte(c)
					}
					b.WriteByte(line[i+1])
					i += 2
					continue
				}
				if c == quote {
					closed = true
					i++
					break
				}
				b.WriteByte(c)
				i++
			}
			if !closed {
				return nil, fmt.Errorf("%w: unterminated quote at column %d", ErrParse, start+1)
			}
			cells = append(cells, b.String())

			for i < n && isBlank(line[i]) {
				i++
			}
			if i < n && line[i] != ',' {
				return nil, fmt.Errorf("%w: unexpected %q after quoted field at column %d", ErrParse, line[i], i+1)
			}
		} else {
			start := i
			for i < n && line[i] != ',' {
				i++
			}
			cells = append(cells, strings.TrimSpace(line[start:i]))
		}

		if i >= n {
			return cells, nil
		}

		// consume the comma
		i++
		if i >= n {
			return append(cells, ""), nil
		}
	}
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}
