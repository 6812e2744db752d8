package fsutil

import (
	"path/filepath"
	"regexp"
	"strings"
)

// limite de longueur de la chaine
const maxNameLen = 200

// invalidFileRunes définit les caractères interdits dans les noms de fichiers
// \x00-\x1F sont les caractères de contrôle
var invalidFileRunes = regexp.MustCompile(`[<>"/\\|?*\x00-\x1F]`)

// multiSpace détecte les séquences de plusieurs espaces pour les réduire à un seul.
var multiSpace = regexp.MustCompile(`\s+`)

// SanitizeFilename nettoie une chaîne de caractères pour en faire un nom de fichier valide.
// Étapes :
// - Remplace ":" par "-" explicitement
// - Remplace les autres caractères interdits par un espace
// - Supprime les espaces superflus
// - Limite la longueur du nom
// - Fournit un nom par défaut si la chaîne est vide
func SanitizeFilename(name string) string {
	if name == "" {
		return "untitled"
	}

	name = strings.ReplaceAll(name, ":", "-")
	clean := invalidFileRunes.ReplaceAllString(name, " ")
	clean = strings.TrimSpace(clean)
	clean = multiSpace.ReplaceAllString(clean, " ")

	// pas de points terminaux (Windows)
	clean = strings.TrimRight(clean, ".")

	if clean == "" {
		return "untitled"
	}
	if len(clean) > maxNameLen {
		clean = truncateUTF8(clean, maxNameLen)
	}
	return clean
}

// DerivedFolderName construit le nom du dossier de GIFs à partir du fichier vidéo :
// "My Video [abc].mp4" -> "My_Video_[abc]_gifs".
func DerivedFolderName(videoPath string) string {
	base := filepath.Base(videoPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = SanitizeFilename(name)
	return strings.ReplaceAll(name, " ", "_") + "_gifs"
}

// truncateUTF8 coupe s à max octets sans casser une rune.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !isRuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
