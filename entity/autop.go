package entity

import (
	"regexp"
	"strings"
)

var blankLines = regexp.MustCompile(`\n\s*\n`)

// Autop wraps blocks of text separated by blank lines in paragraphs and
// turns the remaining line breaks into <br /> tags.
func Autop(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return ""
	}

	var b strings.Builder

	for block := range strings.SplitSeq(blankLines.ReplaceAllString(text, "\n\n"), "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(block, "\n", "<br />\n"))
		b.WriteString("</p>\n")
	}

	return b.String()
}
