package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/patrickprogramme/gifcut/internal/updater"
)

// YtDlpUpdateCheck compare la version locale de yt-dlp à la dernière release GitHub.
func (a *App) YtDlpUpdateCheck(ctx context.Context, timeout time.Duration, version string) error {
	uc, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	check, err := updater.CheckYtDlpUpdate(uc, version, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return fmt.Errorf("vérification de mise à jour a échoué : %w", err)
	}

	if check.IsUpToDate {
		a.ui.PrintInfo(ctx, fmt.Sprintf("✅ yt-dlp est à jour (%s)", check.CurrentVersion))
		return nil
	}

	a.ui.PrintInfo(ctx, "⚠️ Nouvelle version de yt-dlp disponible :")
	a.ui.PrintInfo(ctx, fmt.Sprintf("  Installée : %s", check.CurrentVersion))
	a.ui.PrintInfo(ctx, fmt.Sprintf("  Dernière  : %s", check.Latest.Tag))
	a.ui.PrintInfo(ctx, "Téléchargez-la ici:")
	a.ui.PrintInfo(ctx, check.DownloadLink())

	return nil
}

// progressWriter : destination de la barre de progression de yt-dlp.
func (a *App) progressWriter() io.Writer {
	return os.Stderr
}

// warningWriter : destination des avertissements de yt-dlp.
func (a *App) warningWriter() io.Writer {
	return os.Stdout
}
