package table

import "strings"

var (
	// Candidates are listed by priority: on equal counts the first one wins.
	Delimiters = []rune{',', ';', '\t'}

	newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

func normalizeNewlines(text string) string {
	return newlineReplacer.Replace(text)
}

// DetectDelimiter picks the most frequent candidate delimiter found outside quotes on the first line.
// It defaults to ',' when none is found.
func DetectDelimiter(text string) rune {
	firstLine := normalizeNewlines(text)
	if i := strings.IndexByte(firstLine, '\n'); i != -1 {
		firstLine = firstLine[:i]
	}

	best, bestScore := ',', 0
	for _, delim := range Delimiters {
		score := 0
		inQuotes := false
		for _, char := range firstLine {
			if char == '"' {
				inQuotes = !inQuotes
				continue
			}
			if char == delim && !inQuotes {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

// DelimiterName returns a printable name for delim.
func DelimiterName(delim rune) string {
	switch delim {
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	default:
		return string(delim)
	}
}

type rowScanner struct {
	rows     [][]string
	row      []string
	value    strings.Builder
	inQuotes bool
}

func (s *rowScanner) pushValue() {
	s.row = append(s.row, strings.TrimSpace(s.value.String()))
	s.value.Reset()
}

func (s *rowScanner) pushRow() {
	// a blank physical line leaves a single empty cell behind
	if len(s.row) == 1 && s.row[0] == "" {
		s.row = nil
		return
	}
	s.rows = append(s.rows, s.row)
	s.row = nil
}

// ParseRows splits text into rows of trimmed cells.
// Quoted cells may contain the delimiter and newlines; a doubled quote inside quotes is a literal quote.
// Blank lines are skipped. Blank input yields no rows.
func ParseRows(text string, delim rune) [][]string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	chars := []rune(normalizeNewlines(text))
	s := new(rowScanner)
	for i := 0; i < len(chars); i++ {
		char := chars[i]

		switch {
		case char == '"':
			if s.inQuotes && i+1 < len(chars) && chars[i+1] == '"' {
				s.value.WriteRune('"')
				i++
			} else {
				s.inQuotes = !s.inQuotes
			}
		case char == delim && !s.inQuotes:
			s.pushValue()
		case char == '\n' && !s.inQuotes:
			s.pushValue()
			s.pushRow()
		default:
			s.value.WriteRune(char)
		}
	}

	s.pushValue()
	if len(s.row) > 0 {
		s.pushRow()
	}
	return s.rows
}
