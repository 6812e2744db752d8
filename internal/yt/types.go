package yt

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Download est le résultat d'un téléchargement yt-dlp.
type Download struct {
	Path     string
	Warnings []string
}

// PrintWarnings affiche les avertissements de yt-dlp
func (d *Download) PrintWarnings(w io.Writer) {
	if len(d.Warnings) == 0 {
		return
	}
	fmt.Fprintln(w, "⚠️  Avertissements yt-dlp :")
	for _, msg := range d.Warnings {
		fmt.Fprintf(w, "  - %s\n", msg)
	}
}

// YtDlp représente la commande yt-dlp à exécuter (nom de binaire ou chemin) + args.
type YtDlp struct {
	Name   string
	Path   string // chemin vers l'exe
	Config YtDlpConfig

	// Progress reçoit stderr en direct (barre de progression), nil = silencieux
	Progress io.Writer
	// Warnings reçoit les avertissements collectés, nil = ignorés
	Warnings io.Writer

	logger zerolog.Logger
}

func (y *YtDlp) exe() string {
	if y.Path != "" {
		return y.Path
	}
	return y.Name
}

// splitLines découpe sur \n et \r (les barres de progression réécrivent la ligne).
func splitLines(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' })
}
