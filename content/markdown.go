package content

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var ugc = bluemonday.UGCPolicy()

// RenderMarkdown renders a description written in markdown to sanitized HTML.
// On a conversion error the text is returned escaped.
func RenderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(ugc.SanitizeBytes(buf.Bytes()))
}
