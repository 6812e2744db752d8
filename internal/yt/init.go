package yt

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/patrickprogramme/gifcut/internal/config"
	"github.com/rs/zerolog"
)

const defaultVersionTimeout = 5 * time.Second

// InitYtDlp initialise le client YtDlp, vérifie le binaire et récupère la version.
// progress reçoit la barre de progression si show_progress est actif.
func InitYtDlp(ctx context.Context, cfg *config.Config, progress, warnings io.Writer, logger zerolog.Logger) (Interface, string, error) {
	ytCfg := NewYtDlpConfig(cfg.DownloadDir, cfg.Fetch.Format, cfg.Fetch.OutputTemplate, cfg.YtDlp.ShowWarnings, cfg.Fetch.ShowProgress)
	dl := NewYtDlp(cfg.YtDlp.Name, cfg.YtDlp.ResolvedPath, *ytCfg, logger)
	if cfg.Fetch.ShowProgress {
		dl.Progress = progress
	}
	if cfg.YtDlp.ShowWarnings {
		dl.Warnings = warnings
	}
	logger.Debug().Str("path", dl.exe()).Msg("yt-dlp resolved")

	// vérifier la présence du binaire
	if err := dl.CheckBinary(); err != nil {
		return nil, "", fmt.Errorf("yt-dlp introuvable : %w", err)
	}

	// récupérer la version (avec timeout)
	vctx, cancel := context.WithTimeout(ctx, defaultVersionTimeout)
	defer cancel()
	version, err := dl.GetVersion(vctx)
	if err != nil {
		return dl, "", fmt.Errorf("échec récupération version yt-dlp : %w", err)
	}

	return dl, version, nil
}

// NewFetcher retourne le moteur configuré. La version n'est renseignée que pour yt-dlp.
func NewFetcher(ctx context.Context, cfg *config.Config, progress, warnings io.Writer, logger zerolog.Logger) (Fetcher, string, error) {
	switch cfg.Fetch.Engine {
	case config.EngineNative:
		return NewNative(cfg.DownloadDir, cfg.FFmpeg.ResolvedPath, logger), "", nil
	case config.EngineYtDlp, "":
		dl, version, err := InitYtDlp(ctx, cfg, progress, warnings, logger)
		if err != nil {
			if dl == nil {
				return nil, "", err
			}
			// version inconnue : le téléchargement reste possible
			logger.Warn().Err(err).Msg("yt-dlp version unavailable")
		}
		return dl, version, nil
	default:
		return nil, "", fmt.Errorf("moteur de téléchargement inconnu : %q", cfg.Fetch.Engine)
	}
}
