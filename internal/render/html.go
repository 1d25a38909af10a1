// Package render turns note content into terminal text.
package render

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var bodyPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	return p
}()

var blankLines = regexp.MustCompile(`\n{3,}`)

// Segment is a run of body text, or a checkbox when Check is not negative.
type Segment struct {
	Text  string
	Check int
}

func (s Segment) IsCheck() bool { return s.Check >= 0 }

// Body is a server-rendered note body flattened to text with its
// checkboxes kept as separate segments.
type Body struct {
	Segments []Segment
	// Checked holds the state each checkbox was rendered with.
	Checked []bool
}

// ParseBody sanitizes markup and flattens it into a Body. Checkboxes are
// numbered in document order, matching the note's checkbox offsets.
func ParseBody(markup string) Body {
	clean := bodyPolicy.Sanitize(markup)
	z := html.NewTokenizer(strings.NewReader(clean))

	var (
		body  Body
		text  strings.Builder
		depth int
		pre   int
	)
	flush := func() {
		if text.Len() > 0 {
			body.Segments = append(body.Segments, Segment{Text: text.String(), Check: -1})
			text.Reset()
		}
	}
	newline := func() {
		if text.Len() == 0 && len(body.Segments) == 0 {
			return
		}
		if cur := text.String(); strings.HasSuffix(cur, " ") {
			text.Reset()
			text.WriteString(strings.TrimRight(cur, " "))
		}
		text.WriteByte('\n')
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		tok := z.Token()

		switch tt {
		case html.TextToken:
			if pre > 0 {
				text.WriteString(tok.Data)
				continue
			}
			s := collapseSpace(tok.Data)
			if s == "" {
				continue
			}
			afterCheck := len(body.Segments) > 0 && body.Segments[len(body.Segments)-1].IsCheck()
			if cur := text.String(); (cur == "" && !afterCheck) || strings.HasSuffix(cur, "\n") || strings.HasSuffix(cur, " ") {
				s = strings.TrimLeft(s, " ")
			}
			text.WriteString(s)
		case html.StartTagToken, html.SelfClosingTagToken:
			switch tok.Data {
			case "input":
				if attr(tok, "type") != "checkbox" {
					continue
				}
				flush()
				_, checked := lookup(tok, "checked")
				body.Segments = append(body.Segments, Segment{Check: len(body.Checked)})
				body.Checked = append(body.Checked, checked)
			case "ul", "ol":
				depth++
			case "li":
				newline()
				text.WriteString(strings.Repeat("  ", max(depth-1, 0)) + "- ")
			case "br":
				text.WriteByte('\n')
			case "pre":
				pre++
				newline()
			case "p", "div", "blockquote", "tr", "hr", "h1", "h2", "h3", "h4", "h5", "h6":
				newline()
				if level := headingLevel(tok.Data); level > 0 {
					text.WriteString(strings.Repeat("#", level) + " ")
				}
			}
		case html.EndTagToken:
			switch tok.Data {
			case "ul", "ol":
				depth = max(depth-1, 0)
				if depth == 0 {
					newline()
				}
			case "pre":
				pre = max(pre-1, 0)
				newline()
			case "p", "div", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6":
				newline()
			}
		}
	}
	flush()
	tidy(body.Segments)
	return body
}

// CheckStates returns the rendered state of every checkbox in markup.
func CheckStates(markup string) []bool {
	return ParseBody(markup).Checked
}

// Plain renders body with its checkboxes drawn from checked. Indexes
// beyond checked fall back to the rendered state.
func (b Body) Plain(checked func(i int) bool) string {
	var out strings.Builder
	for _, seg := range b.Segments {
		if !seg.IsCheck() {
			out.WriteString(seg.Text)
			continue
		}
		out.WriteString(Box(checked(seg.Check)))
	}
	return out.String()
}

// Box draws a checkbox.
func Box(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

func tidy(segs []Segment) {
	for i := range segs {
		if segs[i].IsCheck() {
			continue
		}
		segs[i].Text = blankLines.ReplaceAllString(segs[i].Text, "\n\n")
	}
	if len(segs) > 0 && !segs[0].IsCheck() {
		segs[0].Text = strings.TrimLeft(segs[0].Text, "\n")
	}
	if last := len(segs) - 1; last >= 0 && !segs[last].IsCheck() {
		segs[last].Text = strings.TrimRight(segs[last].Text, "\n ")
	}
}

func collapseSpace(s string) string {
	fields := strings.FieldsFunc(s, isSpace)
	if len(fields) == 0 {
		return ""
	}
	out := strings.Join(fields, " ")
	if isSpace(rune(s[0])) {
		out = " " + out
	}
	if isSpace(rune(s[len(s)-1])) {
		out += " "
	}
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func attr(tok html.Token, key string) string {
	v, _ := lookup(tok, key)
	return strings.ToLower(v)
}

func lookup(tok html.Token, key string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
