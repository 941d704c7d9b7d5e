// Package ui renders tables, durations, and styled text for terminal
// output.
package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const tableCellMaxWidth = 50
const tableCellEllipsis = "..."

// TableBuilder collects rows and renders a formatted table.
type TableBuilder struct {
	headers []string
	rows    [][]string
}

// NewTableBuilder returns a builder with preallocated rows.
func NewTableBuilder(headers []string, capacity int) *TableBuilder {
	return &TableBuilder{headers: headers, rows: make([][]string, 0, capacity)}
}

// AddRow appends a row to the table.
func (builder *TableBuilder) AddRow(row []string) {
	builder.rows = append(builder.rows, row)
}

// String renders the table output.
func (builder *TableBuilder) String() string {
	return FormatTable(builder.headers, builder.rows)
}

// FormatTable renders headers and rows as an aligned table. Cells are
// measured by display width, so ANSI styling and wide runes don't skew
// column alignment.
func FormatTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	cells := func(row []string) []string {
		out := make([]string, len(row))
		for i, cell := range row {
			out[i] = normalizeTableCell(cell)
			if i < len(widths) {
				if w := displayWidth(out[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
		return out
	}

	head := cells(headers)
	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		body = append(body, cells(row))
	}

	var builder strings.Builder
	writeRow := func(row []string) {
		for i, cell := range row {
			builder.WriteString(cell)
			if i == len(row)-1 {
				builder.WriteByte('\n')
				continue
			}
			padding := 0
			if i < len(widths) {
				padding = widths[i] - displayWidth(cell)
			}
			builder.WriteString(strings.Repeat(" ", padding+2))
		}
	}

	writeRow(head)
	for _, row := range body {
		writeRow(row)
	}

	return builder.String()
}

// TruncateTableCell limits cell display width while preserving visible
// characters and any ANSI styling around them.
func TruncateTableCell(value string) string {
	value = normalizeTableCell(value)
	if displayWidth(value) <= tableCellMaxWidth {
		return value
	}

	max := tableCellMaxWidth - displayWidth(tableCellEllipsis)
	if max <= 0 {
		return tableCellEllipsis
	}
	return truncateVisible(value, max) + tableCellEllipsis
}

func displayWidth(value string) int {
	return runewidth.StringWidth(stripANSICodes(value))
}

func normalizeTableCell(value string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(value)
}

// truncateVisible keeps the first max columns of visible output. Escape
// sequences pass through unmeasured so styled cells stay styled after
// truncation.
func truncateVisible(value string, max int) string {
	if max <= 0 {
		return ""
	}

	var builder strings.Builder
	visible := 0
	for i := 0; i < len(value); {
		if value[i] == '\x1b' && i+1 < len(value) && value[i+1] == '[' {
			end := i + 2
			for end < len(value) && value[end] != 'm' {
				end++
			}
			if end < len(value) {
				end++
			}
			builder.WriteString(value[i:end])
			i = end
			continue
		}

		r, size := utf8.DecodeRuneInString(value[i:])
		w := runewidth.RuneWidth(r)
		if r == utf8.RuneError && size == 1 {
			w = 1
		}
		if visible+w > max {
			break
		}
		builder.WriteString(value[i : i+size])
		visible += w
		i += size
	}
	return builder.String()
}

func stripANSICodes(input string) string {
	var builder strings.Builder
	inEscape := false
	for i := 0; i < len(input); i++ {
		char := input[i]
		if inEscape {
			if char == 'm' {
				inEscape = false
			}
			continue
		}
		if char == '\x1b' {
			inEscape = true
			continue
		}
		builder.WriteByte(char)
	}
	return builder.String()
}
