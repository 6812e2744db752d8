package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Variables d'environnement reconnues (chargées aussi depuis .env via godotenv dans main).
const (
	EnvDownloadDir = "GIFCUT_DOWNLOAD_DIR"
	EnvOutputDir   = "GIFCUT_OUTPUT_DIR"
	EnvEngine      = "GIFCUT_FETCH_ENGINE"
	EnvYtDlpPath   = "GIFCUT_YTDLP_PATH"
	EnvFFmpegPath  = "GIFCUT_FFMPEG_PATH"
	EnvFFprobePath = "GIFCUT_FFPROBE_PATH"
	EnvClipLength  = "GIFCUT_CLIP_LENGTH"
	EnvClipFPS     = "GIFCUT_CLIP_FPS"
)

// LookupFunc a la signature de os.LookupEnv (injectable pour les tests).
type LookupFunc func(key string) (string, bool)

// ApplyEnv surcharge la config avec les variables GIFCUT_*.
// Les valeurs numériques invalides sont ignorées et remontées comme warnings.
// Appeler normalizeConfig (ou Load) ensuite pour re-résoudre les chemins.
func (c *Config) ApplyEnv(lookup LookupFunc) (warnings []string) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str(EnvDownloadDir, &c.DownloadDir)
	str(EnvOutputDir, &c.OutputBaseDir)
	str(EnvEngine, &c.Fetch.Engine)
	str(EnvYtDlpPath, &c.YtDlp.Path)
	str(EnvFFmpegPath, &c.FFmpeg.Path)
	str(EnvFFprobePath, &c.FFprobe.Path)

	if v, ok := lookup(EnvClipLength); ok && v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || f <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s=%q ignoré (nombre positif attendu)", EnvClipLength, v))
		} else {
			c.Clip.Length = f
		}
	}
	if v, ok := lookup(EnvClipFPS); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s=%q ignoré (entier positif attendu)", EnvClipFPS, v))
		} else {
			c.Clip.FPS = n
		}
	}
	return warnings
}
