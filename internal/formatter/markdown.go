// Package formatter renders build reports as markdown with aligned tables.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"yongpei/pkg/utils"
)

// FormatMarkdown aligns every pipe table in content. Column widths are
// display widths, so CJK cells line up in a terminal.
func FormatMarkdown(content string) string {
	lines := strings.Split(content, "\n")

	var (
		formatted   []string
		tableBuffer []string
	)

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") {
			tableBuffer = append(tableBuffer, line)

			continue
		}

		if len(tableBuffer) > 0 {
			formatted = append(formatted, processTable(tableBuffer)...)
			tableBuffer = nil
		}

		formatted = append(formatted, line)
	}

	if len(tableBuffer) > 0 {
		formatted = append(formatted, processTable(tableBuffer)...)
	}

	return strings.Join(formatted, "\n")
}

// EscapeCell makes s safe to place in a table cell.
func EscapeCell(s string) string {
	s = utils.NormalizeWhitespace(s)

	return strings.ReplaceAll(s, "|", `\|`)
}

// splitRow splits a table row on unescaped pipes and trims the cells.
func splitRow(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")

	if strings.HasSuffix(row, "|") && !strings.HasSuffix(row, `\|`) {
		row = row[:len(row)-1]
	}

	var (
		cells []string
		cell  strings.Builder
	)

	for i := 0; i < len(row); i++ {
		switch {
		case row[i] == '\\' && i+1 < len(row) && row[i+1] == '|':
			cell.WriteString(`\|`)
			i++
		case row[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(row[i])
		}
	}

	return append(cells, strings.TrimSpace(cell.String()))
}

func isSeparator(cells []string) bool {
	for _, cell := range cells {
		if strings.Trim(cell, "-: ") != "" {
			return false
		}
	}

	return true
}

func processTable(rows []string) []string {
	// a header without separator is not a table
	if len(rows) < 2 {
		return rows
	}

	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		table = append(table, splitRow(row))
	}

	colCount := 0
	for _, row := range table {
		colCount = max(colCount, len(row))
	}

	separatorRowIdx := -1
	if isSeparator(table[1]) {
		separatorRowIdx = 1
	}

	colWidths := make([]int, colCount)

	for rIdx, row := range table {
		if rIdx == separatorRowIdx {
			continue
		}

		for i, cell := range row {
			colWidths[i] = max(colWidths[i], runewidth.StringWidth(cell))
		}
	}

	for i := range colWidths {
		colWidths[i] = max(colWidths[i], 3)
	}

	result := make([]string, 0, len(table))

	for rIdx, row := range table {
		var sb strings.Builder

		sb.WriteString("|")

		for j := 0; j < colCount; j++ {
			sb.WriteString(" ")

			if rIdx == separatorRowIdx {
				sb.WriteString(strings.Repeat("-", colWidths[j]))
			} else {
				content := ""
				if j < len(row) {
					content = row[j]
				}

				sb.WriteString(runewidth.FillRight(content, colWidths[j]))
			}

			sb.WriteString(" |")
		}

		result = append(result, sb.String())
	}

	return result
}
