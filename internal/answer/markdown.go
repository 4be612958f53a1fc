package answer

import (
	"regexp"
	"strings"
)

// Markdown-рендер поверх уже отрендеренных plain-строк: строки вида
// "AMOUNT SYMBOL = TOTAL CURRENCY" раскладываются по четырём колонкам,
// всё остальное (сообщения "no data" и т.п.) целиком падает в первую
// колонку. Хвост строки после валюты (market cap и т.д.) в таблицу
// не попадает.

var lineFormat = regexp.MustCompile(`^([0-9][0-9.,]*)\s+([A-Z0-9-]+)\s+=\s+([0-9][0-9.,]*)\s+([A-Z]+)`)

func renderMarkdown(lines []string) string {
	var b strings.Builder
	b.WriteString("| Amount | Token | Value | Currency |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, line := range lines {
		m := lineFormat.FindStringSubmatch(line)
		if m == nil {
			b.WriteString("| " + line + " |  |  |  |\n")
			continue
		}
		b.WriteString("| " + m[1] + " | " + m[2] + " | " + m[3] + " | " + m[4] + " |\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
