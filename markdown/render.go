// Package markdown renders assistant replies for the terminal. Maya's
// backend speaks markdown; the transcript shows it styled when a renderer is
// available and verbatim otherwise.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const wrapWidth = 100

var (
	once     sync.Once
	renderer *glamour.TermRenderer
)

// Render styles one assistant reply. Blank input, a failed renderer, or a
// render error all fall back to the raw text so a reply is never lost.
func Render(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	once.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrapWidth),
		)
		if err == nil {
			renderer = r
		}
	})
	if renderer == nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	// glamour pads with blank lines; the transcript spaces messages itself.
	return strings.Trim(out, "\n")
}
