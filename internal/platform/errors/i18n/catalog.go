// Package i18n renders user-facing error messages.
//
// Messages live in the "errors" namespace of the shared catalog, keyed by
// code: ORDER_CAPACITY_EXCEEDED is stored as errors.ORDER_CAPACITY_EXCEEDED.
// A message is a text/template over the error metadata, for example
// "Only {{.Available}} spots available.".
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/xplorehub/internal/platform/i18n/catalog"
)

// Code is an error code string. The errors package imports this one, so
// the alias avoids a cycle.
type Code = string

// Namespace is the catalog namespace holding error messages.
const Namespace = "errors"

const keyPrefix = Namespace + "."

// Catalog holds the compiled error messages of one locale.
type Catalog struct {
	locale    string
	templates map[Code]*template.Template
	sources   map[Code]string
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{}
)

// GetCatalog returns the catalog for the supported locale closest to
// locale, which may be an Accept-Language value. Codes missing from that
// locale use the base-locale message.
func GetCatalog(locale string) *Catalog {
	bundle := i18ncatalog.Default()
	resolved := bundle.Match(strings.TrimSpace(locale))

	catalogsMu.RLock()
	cached, ok := catalogs[resolved]
	catalogsMu.RUnlock()
	if ok {
		return cached
	}

	messages := bundle.NamespaceMessages(i18ncatalog.BaseLocale, Namespace)
	if resolved != i18ncatalog.BaseLocale {
		for key, value := range bundle.NamespaceMessages(resolved, Namespace) {
			messages[key] = value
		}
	}
	built := NewCatalog(resolved, stripPrefix(messages))

	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	if existing, ok := catalogs[resolved]; ok {
		return existing
	}
	catalogs[resolved] = built
	return built
}

// NewCatalog compiles messages keyed by bare code. A message that does not
// parse as a template is kept verbatim.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	c := &Catalog{
		locale:    locale,
		templates: make(map[Code]*template.Template, len(messages)),
		sources:   make(map[Code]string, len(messages)),
	}
	for code, source := range messages {
		c.sources[code] = source
		if tmpl, err := template.New(code).Parse(source); err == nil {
			c.templates[code] = tmpl
		}
	}
	return c
}

// Locale returns the resolved locale of the catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message of code with metadata. Unknown codes render as
// the code itself, and a template that fails to run renders its source.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	source, ok := c.sources[code]
	if !ok {
		return code
	}
	tmpl, ok := c.templates[code]
	if !ok {
		return source
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return source
	}
	return buf.String()
}

func stripPrefix(messages map[string]string) map[Code]string {
	out := make(map[Code]string, len(messages))
	for key, value := range messages {
		out[strings.TrimPrefix(key, keyPrefix)] = value
	}
	return out
}
