// Package render converts analysis finding text into safe HTML.
//
// The same functions serve the server-rendered report page and the JSON API
// that the details modal re-renders from. Clients must consume the produced
// contentHtml verbatim; re-implementing these rules elsewhere is a
// correctness bug because the two surfaces would drift.
package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Mode selects the formatting rules for a piece of content.
type Mode int

const (
	// ModeInline formats short single-field content: line breaks, bold,
	// italic and clause-reference highlighting only.
	ModeInline Mode = iota
	// ModeDocument formats long-form content (the final opinion) with a
	// constrained block-level subset: headings, numbered and bulleted
	// lists, paragraphs.
	ModeDocument
)

// Inline substitution rules, applied in this fixed order over HTML-escaped
// text. The order matters: bold consumes double stars before the italic rule
// sees the leftovers, and clause references are highlighted last so they
// also match inside bold or italic runs.
var (
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*`)
	clauseRe = regexp.MustCompile(`Cl[áa]usula\s+\d+(?:\.\d+)*`)
)

// Block-level markers for document mode.
var (
	blankLineRe = regexp.MustCompile(`\n[ \t]*\n+`)
	orderedRe   = regexp.MustCompile(`^\s*\d+\.\s*`)
	bulletRe    = regexp.MustCompile(`^\s*[-*]\s+`)
	headingRe   = regexp.MustCompile(`^(#{1,3})\s+`)
)

// Render formats content according to mode.
func Render(content string, mode Mode) string {
	if mode == ModeDocument {
		return Document(content)
	}
	return Inline(content)
}

// Inline escapes content and applies the inline markup rules. Input that
// carries no markup comes back as the escaped original with newlines turned
// into <br>; malformed markup is left as escaped literal text.
func Inline(content string) string {
	out := html.EscapeString(normalize(content))
	out = strings.ReplaceAll(out, "\n", "<br>")
	out = boldRe.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicRe.ReplaceAllString(out, "<em>$1</em>")
	out = clauseRe.ReplaceAllString(out, `<span class="clause-ref">$0</span>`)
	return out
}

// Document splits content into blocks on blank lines and renders each block
// as a heading, ordered list, bulleted list or paragraph. Every piece of
// text still passes through the inline rules, so escaping and clause
// highlighting behave exactly as in inline mode.
func Document(content string) string {
	var b strings.Builder
	for _, block := range blankLineRe.Split(strings.TrimSpace(normalize(content)), -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		renderBlock(&b, strings.Split(block, "\n"))
	}
	return b.String()
}

func renderBlock(b *strings.Builder, lines []string) {
	if len(lines) == 0 {
		return
	}
	if m := headingRe.FindStringSubmatch(lines[0]); m != nil {
		// # .. ### map to h3..h5 so headings nest under the report chrome.
		level := len(m[1]) + 2
		text := strings.TrimSpace(headingRe.ReplaceAllString(lines[0], ""))
		fmt.Fprintf(b, "<h%d>%s</h%d>", level, Inline(text), level)
		renderBlock(b, lines[1:])
		return
	}
	switch {
	case orderedRe.MatchString(lines[0]):
		writeList(b, lines, "ol", orderedRe)
	case bulletRe.MatchString(lines[0]):
		writeList(b, lines, "ul", bulletRe)
	default:
		b.WriteString("<p>")
		b.WriteString(Inline(strings.Join(lines, "\n")))
		b.WriteString("</p>")
	}
}

// writeList emits one list block. A line matching the marker starts a new
// item with the marker stripped; any other line continues the open item.
func writeList(b *strings.Builder, lines []string, tag string, marker *regexp.Regexp) {
	var items []string
	for _, line := range lines {
		if marker.MatchString(line) {
			items = append(items, strings.TrimSpace(marker.ReplaceAllString(line, "")))
			continue
		}
		if len(items) == 0 {
			items = append(items, strings.TrimSpace(line))
			continue
		}
		items[len(items)-1] += " " + strings.TrimSpace(line)
	}
	b.WriteString("<" + tag + ">")
	for _, item := range items {
		b.WriteString("<li>")
		b.WriteString(Inline(item))
		b.WriteString("</li>")
	}
	b.WriteString("</" + tag + ">")
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
