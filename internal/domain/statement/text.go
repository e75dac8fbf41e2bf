package statement

import (
	"strings"
)

const textWidth = 48

// Text renders the statement as fixed-width plain text.
func (s Statement) Text() string {
	var b strings.Builder
	b.WriteString(s.Title)
	b.WriteString("\n")
	b.WriteString(s.PeriodTitle)
	b.WriteString("\n")
	b.WriteString(s.DateRange)
	b.WriteString("\n")

	for _, section := range s.Sections {
		b.WriteString("\n")
		b.WriteString(section.Title)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", textWidth))
		b.WriteString("\n")
		for _, row := range section.Rows {
			b.WriteString(padRow(row.Label, row.Value))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(s.Footer)
	b.WriteString("\n")
	return b.String()
}

func padRow(label, value string) string {
	gap := textWidth - len([]rune(label)) - len([]rune(value))
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + value
}
