package report

import (
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/patrickprogramme/gifcut/pkg/model"
)

// baseFuncMap construit la liste des fonctions exposées aux templates.
func baseFuncMap() template.FuncMap {
	return template.FuncMap{
		"seconds":   model.FormatSeconds,
		"timestamp": timestamp,
		"status":    status,
	}
}

// timestamp : 75.5 -> "01:15.5", 3725 -> "1:02:05"
func timestamp(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	tenths := int(math.Round(sec * 10))
	whole := tenths / 10
	h := whole / 3600
	m := (whole % 3600) / 60
	s := whole % 60

	var out string
	if h > 0 {
		out = fmt.Sprintf("%d:%02d:%02d", h, m, s)
	} else {
		out = fmt.Sprintf("%02d:%02d", m, s)
	}
	if t := tenths % 10; t > 0 {
		out += fmt.Sprintf(".%d", t)
	}
	return out
}

// status : rendu court du statut, avec l'erreur en cas d'échec.
func status(r Row) string {
	switch r.Status {
	case model.ClipSaved:
		return "✅"
	case model.ClipFailed:
		if r.Err == "" {
			return "❌"
		}
		// le tableau markdown ne supporte ni | ni retour ligne
		msg := strings.NewReplacer("|", "/", "\n", " ").Replace(r.Err)
		return "❌ " + msg
	case model.ClipSkipped:
		return "⏭️ non tenté"
	default:
		return string(r.Status)
	}
}
