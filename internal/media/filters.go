package media

import (
	"fmt"
	"strings"
)

// FilterBuilder construit une chaîne de filtres vidéo ffmpeg (-vf).
type FilterBuilder struct {
	filters []string
}

func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{filters: make([]string, 0, 2)}
}

// FPS ajoute un filtre fps (ignoré si fps <= 0).
func (fb *FilterBuilder) FPS(fps int) *FilterBuilder {
	if fps <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("fps=%d", fps))
	return fb
}

// ScaleWidth fixe la largeur, la hauteur suit le ratio (-1).
// flags choisit l'algorithme de redimensionnement (ex : lanczos).
func (fb *FilterBuilder) ScaleWidth(width int, flags string) *FilterBuilder {
	if width <= 0 {
		return fb
	}
	f := fmt.Sprintf("scale=%d:-1", width)
	if flags != "" {
		f += ":flags=" + flags
	}
	fb.filters = append(fb.filters, f)
	return fb
}

// Build retourne les filtres joints par des virgules.
func (fb *FilterBuilder) Build() string {
	return strings.Join(fb.filters, ",")
}

// GIFFilter : chaîne utilisée pour chaque clip.
func GIFFilter(fps, width int, flags string) string {
	return NewFilterBuilder().FPS(fps).ScaleWidth(width, flags).Build()
}
