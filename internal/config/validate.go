package config

import (
	"fmt"
	"os"
	"strings"
)

// ValidateTools vérifie statiquement les exécutables nécessaires au moteur choisi.
// Retourne des warnings (non fatals) et une erreur si un chemin configuré est inutilisable.
func (c *Config) ValidateTools() (warnings []string, err error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	c.ResolveToolPaths()

	tools := []struct {
		label string
		tool  Tool
	}{
		{"ffprobe", c.FFprobe},
		{"ffmpeg", c.FFmpeg},
	}
	if c.Fetch.Engine == EngineYtDlp {
		tools = append(tools, struct {
			label string
			tool  Tool
		}{"yt-dlp", c.YtDlp.Tool})
	}

	for _, t := range tools {
		p := strings.TrimSpace(t.tool.ResolvedPath)
		if p == "" {
			warnings = append(warnings, fmt.Sprintf("%s introuvable dans le PATH (%s)", t.label, t.tool.Name))
			continue
		}
		info, serr := os.Stat(p)
		if serr != nil {
			if os.IsNotExist(serr) {
				warnings = append(warnings, fmt.Sprintf("%s introuvable à l'emplacement configuré : %s", t.label, p))
				continue
			}
			return warnings, fmt.Errorf("erreur lors du test du fichier %s : %w", p, serr)
		}
		if info.IsDir() {
			return warnings, fmt.Errorf("le chemin configuré pour %s est un répertoire : %s", t.label, p)
		}
	}
	return warnings, nil
}
