// Package render formats assistant markdown for terminal display.
package render

// Options configures the markdown renderer behavior.
type Options struct {
	// Width is the maximum output width (default: 80)
	Width int

	// Theme is a glamour style name, see Themes()
	Theme string

	// PreserveNewLines keeps the original line breaks
	PreserveNewLines bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Theme:            ThemeDark,
		PreserveNewLines: true,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithTheme returns Options with the specified theme.
func (o Options) WithTheme(theme string) Options {
	o.Theme = theme
	return o
}

// Markdown renders markdown content for terminal display. Renderers are
// pooled per option set; glamour's renderer is not safe for concurrent use,
// so each call checks one out for itself.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// MarkdownWithWidth renders with default options at the specified width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// MarkdownOrPlain renders markdown, falling back to the raw text when the
// renderer fails. Chat surfaces use this so a styling problem never hides
// a reply.
func MarkdownOrPlain(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return out
}
