package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (b *htmlWriter) raw(parts ...string) {
	for _, part := range parts {
		if b.err != nil {
			return
		}
		_, b.err = io.WriteString(b.w, part)
	}
}

func (b *htmlWriter) text(s string) {
	b.raw(templ.EscapeString(s))
}

func (b *htmlWriter) url(u string) {
	b.raw(templ.EscapeString(string(templ.URL(u))))
}

func (b *htmlWriter) int(n int) {
	b.raw(strconv.Itoa(n))
}

func (b *htmlWriter) render(ctx context.Context, c templ.Component) {
	if b.err != nil || c == nil {
		return
	}
	b.err = c.Render(ctx, b.w)
}

// component adapts a markup function into a templ.Component.
func component(fn func(ctx context.Context, b *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &htmlWriter{w: w}
		fn(ctx, b)
		return b.err
	})
}

// input renders a labeled form field.
func (b *htmlWriter) input(label, name, kind, value string, required bool, extra string) {
	b.raw(`<label>`)
	b.text(label)
	b.raw(`<input type="`, kind, `" name="`, name, `" value="`)
	b.text(value)
	b.raw(`"`)
	if required {
		b.raw(` required`)
	}
	if extra != "" {
		b.raw(` `, extra)
	}
	b.raw(`></label>`)
}

func (b *htmlWriter) fieldError(message string) {
	if message == "" {
		return
	}
	b.raw(`<p class="field-error">`)
	b.text(message)
	b.raw(`</p>`)
}

// postButton renders a one-button form, used for state-changing links.
func (b *htmlWriter) postButton(action, label, class, confirm string) {
	b.raw(`<form method="post" action="`)
	b.url(action)
	b.raw(`" class="inline"`)
	if confirm != "" {
		b.raw(` data-confirm="`)
		b.text(confirm)
		b.raw(`" onsubmit="return confirm(this.dataset.confirm)"`)
	}
	b.raw(`><button type="submit" class="`, class, `">`)
	b.text(label)
	b.raw(`</button></form>`)
}
