package templates

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in descriptions is dropped; goldmark only emits it with
// html.WithUnsafe.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders an event description.
func Markdown(source string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(source), &buf); err != nil {
			_, err = io.WriteString(w, "<p>"+templ.EscapeString(source)+"</p>")
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}
