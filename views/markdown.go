package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/landing/content"
)

// Markdown renders md as sanitized HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, string(content.RenderMarkdown(md)))
		return err
	})
}
