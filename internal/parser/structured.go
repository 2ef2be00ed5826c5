// File: internal/parser/structured.go

// Package parser extracts chart, table and metric-card data from
// generated free-form text. The detection is a fixed set of heuristics
// over specific text shapes, not a grammar: passes run independently,
// overlapping matches are not reconciled, and unmatched text is left
// alone. Keep it approximate.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/suryansh00001/AI-Search/internal/domain/model"
)

var (
	headerRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	blankRe  = regexp.MustCompile(`\n[ \t]*\n`)

	// Line-anchored "Label: 123K" with an optional leading bullet and
	// an optional K/M/B/% unit.
	chartLineRe = regexp.MustCompile(`(?m)^[-*]?\s*(.+?):\s*(\d+(?:\.\d+)?)\s*([KMB%]?)\s*$`)
	// Inline fallback for the same shape when lines carry several pairs.
	chartInlineRe = regexp.MustCompile(`(\w+(?:\s+\w+)*?)\s*:\s*(\d+(?:\.\d+)?)\s*([KMB%]?)`)

	// "Metric Name [1]: value" where the name starts uppercase and the
	// bracketed citation marker is ignored.
	cardLineRe = regexp.MustCompile(`(?m)^([A-Z][A-Za-z\s]+?)(?:\s*\[\d+\])?\s*:\s*(.+?)\s*$`)
)

// Extract applies the detection passes in fixed order (charts, tables,
// cards) and returns the cleaned remainder plus all items found, in
// detection order. The chart pass never mutates the cleaned text; only
// the table and card passes strip what they matched.
func Extract(text string) (string, []model.StructuredItem) {
	var items []model.StructuredItem

	sections := headerSections(text)
	for _, sec := range sections {
		if pts := chartPoints(sec.content); pts != nil {
			items = append(items, chartItem(pts, sec.title))
		}
	}
	if len(sections) == 0 {
		// No bold headers: treat the whole text as one untitled section.
		if pts := chartPoints(text); pts != nil {
			items = append(items, chartItem(pts, "Data Comparison"))
		}
	}

	cleaned := text
	if next, item, ok := extractTable(cleaned); ok {
		cleaned = next
		items = append(items, item)
	}
	if next, item, ok := extractCard(cleaned); ok {
		cleaned = next
		items = append(items, item)
	}
	return cleaned, items
}

type section struct {
	title   string
	content string
}

// headerSections splits text on bold-markup headers. A section's
// content runs from the newline after its header to the next blank
// line, the next bold marker, or the end of text.
func headerSections(text string) []section {
	var out []section
	for _, loc := range headerRe.FindAllStringSubmatchIndex(text, -1) {
		title := strings.TrimSpace(text[loc[2]:loc[3]])
		rest := text[loc[1]:]

		i := 0
		for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t' || rest[i] == '\r') {
			i++
		}
		if i >= len(rest) || rest[i] != '\n' {
			continue
		}
		content := rest[i+1:]

		end := len(content)
		if m := blankRe.FindStringIndex(content); m != nil && m[0] < end {
			end = m[0]
		}
		if j := strings.IndexByte(content, '*'); j >= 0 && j < end {
			end = j
		}
		content = strings.TrimSpace(content[:end])
		if content == "" {
			continue
		}
		out = append(out, section{title: title, content: content})
	}
	return out
}

// chartPoints matches "label: number[unit]" lines within one block.
// Line-anchored matching is tried first; below three hits it retries
// with the inline variant. Fewer than three matches is no chart.
func chartPoints(block string) []model.ChartPoint {
	matches := chartLineRe.FindAllStringSubmatch(block, -1)
	if len(matches) < 3 {
		matches = chartInlineRe.FindAllStringSubmatch(block, -1)
	}
	if len(matches) < 3 {
		return nil
	}

	points := make([]model.ChartPoint, 0, len(matches))
	for _, m := range matches {
		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		switch m[3] {
		case "K":
			value *= 1e3
		case "M":
			value *= 1e6
		case "B":
			value *= 1e9
		}
		// "%" stays a raw number.
		points = append(points, model.ChartPoint{Name: strings.TrimSpace(m[1]), Value: value})
	}
	if len(points) < 3 {
		return nil
	}
	return points
}

func chartItem(points []model.ChartPoint, title string) model.StructuredItem {
	return model.StructuredItem{
		Type: "chart",
		Data: points,
		Config: &model.ChartConfig{
			Type:  "bar",
			XKey:  "name",
			YKey:  "value",
			Title: title,
		},
	}
}

// extractTable detects one markdown table: a run of lines starting
// with "|", at least header + separator + one data row. Rows that are
// entirely separator punctuation are dropped.
func extractTable(text string) (string, model.StructuredItem, bool) {
	var tableLines []string
	inTable := false
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "|") && strings.HasPrefix(strings.TrimSpace(line), "|") {
			inTable = true
			tableLines = append(tableLines, line)
		} else if inTable && strings.TrimSpace(line) == "" {
			break
		}
	}
	if len(tableLines) < 3 {
		return "", model.StructuredItem{}, false
	}

	rows := make([][]string, 0, len(tableLines))
	for _, line := range tableLines {
		cells := strings.Split(line, "|")
		if len(cells) < 3 {
			return "", model.StructuredItem{}, false
		}
		cells = cells[1 : len(cells)-1]
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}

	headers := rows[0]
	var tableData []map[string]string
	for _, row := range rows[2:] {
		if allSeparator(row) {
			continue
		}
		if len(row) < len(headers) {
			return "", model.StructuredItem{}, false
		}
		entry := make(map[string]string, len(headers))
		for i, h := range headers {
			entry[h] = row[i]
		}
		tableData = append(tableData, entry)
	}
	if len(tableData) == 0 {
		return "", model.StructuredItem{}, false
	}

	tableText := strings.Join(tableLines, "\n")
	cleaned := strings.TrimSpace(strings.Replace(text, tableText, "", 1))
	return cleaned, model.StructuredItem{Type: "table", Data: tableData}, true
}

func allSeparator(row []string) bool {
	for _, cell := range row {
		if !strings.Contains(cell, "-") {
			return false
		}
	}
	return true
}

// extractCard collapses "Name: value" lines into one metric card.
// Needs at least two matches; bracketed citation markers are stripped.
func extractCard(text string) (string, model.StructuredItem, bool) {
	matches := cardLineRe.FindAllStringSubmatch(text, -1)
	if len(matches) < 2 {
		return "", model.StructuredItem{}, false
	}

	data := make(map[string]string, len(matches))
	for _, m := range matches {
		data[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
	}

	cleaned := text
	for _, m := range matches {
		lineRe, err := regexp.Compile(
			`(?m)^` + regexp.QuoteMeta(m[1]) + `(?:\s*\[\d+\])?\s*:\s*` + regexp.QuoteMeta(m[2]) + `\s*$`,
		)
		if err != nil {
			continue
		}
		cleaned = lineRe.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.TrimSpace(cleaned)

	return cleaned, model.StructuredItem{Type: "card", Data: data}, true
}
