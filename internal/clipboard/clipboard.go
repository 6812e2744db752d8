package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported : aucun outil presse-papier disponible (ex : Linux sans xclip/xsel/wl-clipboard).
var ErrUnsupported = errors.New("presse-papier indisponible sur ce système")

// ReadAll lit le contenu texte du presse-papier.
func ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	return clipboard.ReadAll()
}

// WriteAll écrit une chaîne de caractères dans le presse-papier.
// Retourne une erreur si l'opération échoue.
func WriteAll(text string) error {
	if text == "" {
		return errors.New("le texte à copier ne peut pas être vide")
	}
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}
