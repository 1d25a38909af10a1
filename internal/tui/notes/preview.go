package notes

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/render"
)

// formatPreview lays out a server preview as text.
func formatPreview(p *note.Preview) string {
	var b strings.Builder

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "(untitled)"
	}
	b.WriteString(titleStyle.Render(name))
	b.WriteString("\n")

	var meta []string
	if p.Date != "" {
		meta = append(meta, p.Date)
	}
	if len(p.Tags) > 0 {
		meta = append(meta, "#"+strings.Join(p.Tags, " #"))
	}
	if len(meta) > 0 {
		b.WriteString(metaStyle.Render(strings.Join(meta, "  ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	body := render.ParseBody(p.HTML)
	b.WriteString(textStyle.Render(body.Plain(func(i int) bool {
		return i < len(body.Checked) && body.Checked[i]
	})))
	return b.String()
}

func (m *Model) showPreview(p *note.Preview) {
	m.previewNote = p
	m.preview = viewport.New(m.bodyWidth(), m.bodyHeight())
	m.preview.SetContent(formatPreview(p))
}

func (m *Model) previewView() string {
	return previewStyle.Render(m.preview.View())
}
