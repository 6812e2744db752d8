package yt

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// GetVersion exécute le binaire yt-dlp avec l'option --version et retourne sa sortie.
// CombinedOutput capture stdout et stderr pour le diagnostic.
func (y *YtDlp) GetVersion(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, y.exe(), "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("échec exécution yt-dlp --version : %w, output: %s", err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}
