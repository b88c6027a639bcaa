package ingest

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
)

const (
	pageSeparator  = "\n\n"
	maxTitleLength = 80
)

var paragraphBreak = regexp.MustCompile(`\n[ \t\r]*\n`)

// joinPages concatenates page texts with a blank line between them and records each page's rune span.
func joinPages(pages []string) (string, []commonModels.PageSpan) {
	var b strings.Builder
	spans := make([]commonModels.PageSpan, 0, len(pages))
	offset := 0
	for i, p := range pages {
		if i > 0 {
			b.WriteString(pageSeparator)
			offset += utf8.RuneCountInString(pageSeparator)
		}
		n := utf8.RuneCountInString(p)
		b.WriteString(p)
		spans = append(spans, commonModels.PageSpan{
			PageNumber: i + 1,
			StartIndex: offset,
			EndIndex:   offset + n,
		})
		offset += n
	}
	return b.String(), spans
}

// buildSections splits text into paragraphs separated by blank lines.
// Offsets are runes; surrounding whitespace is excluded from each span.
func buildSections(text string) []commonModels.SectionSpan {
	var sections []commonModels.SectionSpan
	conv := runeOffsets{text: text}

	start := 0
	emit := func(from, to int) {
		segment := text[from:to]
		trimmedLeft := strings.TrimLeft(segment, " \t\r\n")
		body := strings.TrimRight(trimmedLeft, " \t\r\n")
		if body == "" {
			return
		}
		bStart := from + len(segment) - len(trimmedLeft)
		bEnd := bStart + len(body)
		sections = append(sections, commonModels.SectionSpan{
			Index:      len(sections),
			Title:      sectionTitle(body),
			StartIndex: conv.at(bStart),
			EndIndex:   conv.at(bEnd),
		})
	}
	for _, loc := range paragraphBreak.FindAllStringIndex(text, -1) {
		emit(start, loc[0])
		start = loc[1]
	}
	emit(start, len(text))
	return sections
}

func sectionTitle(body string) string {
	line, _, _ := strings.Cut(body, "\n")
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) > maxTitleLength {
		line = string([]rune(line)[:maxTitleLength])
	}
	return line
}

// runeOffsets converts increasing byte offsets to rune offsets without rescanning the prefix.
type runeOffsets struct {
	text     string
	lastByte int
	lastRune int
}

func (r *runeOffsets) at(byteOffset int) int {
	if byteOffset < r.lastByte {
		r.lastByte, r.lastRune = 0, 0
	}
	r.lastRune += utf8.RuneCountInString(r.text[r.lastByte:byteOffset])
	r.lastByte = byteOffset
	return r.lastRune
}
