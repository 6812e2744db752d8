package yt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/patrickprogramme/gifcut/internal/fsutil"
	"github.com/patrickprogramme/gifcut/pkg/model"
	"github.com/rs/zerolog"
)

// NewYtDlp construit une instance. Path doit être le chemin résolu vers l'exe
func NewYtDlp(name string, resolvedPath string, cfg YtDlpConfig, logger zerolog.Logger) *YtDlp {
	return &YtDlp{
		Name:   name,
		Path:   resolvedPath,
		Config: cfg,
		logger: logger.With().Str("component", "yt-dlp").Logger(),
	}
}

// CheckBinary vérifie que le binaire existe et n'est pas un répertoire.
func (y *YtDlp) CheckBinary() error {
	if y == nil {
		return fmt.Errorf("yt-dlp non initialisé")
	}

	exe := y.Path
	if exe == "" {
		y.logger.Debug().Str("name", y.Name).Msg("no resolved path, falling back on name")
		if _, err := exec.LookPath(y.Name); err != nil {
			return fmt.Errorf("yt-dlp introuvable dans le PATH (%s) : %w", y.Name, err)
		}
		return nil
	}

	info, err := os.Stat(exe)
	if err != nil {
		return fmt.Errorf("yt-dlp introuvable (%s) à l'emplacement spécifié : %w", exe, err)
	}
	if info.IsDir() {
		return fmt.Errorf("le chemin spécifié pour yt-dlp est un répertoire, pas un fichier exécutable")
	}
	return nil
}

// Fetch télécharge url dans Config.DownloadDir et retourne le chemin du fichier.
func (y *YtDlp) Fetch(ctx context.Context, url string) (string, error) {
	dl, err := y.Download(ctx, url)
	if err != nil {
		return "", err
	}
	return dl.Path, nil
}

// Download exécute yt-dlp, collecte les avertissements et vérifie le fichier produit.
func (y *YtDlp) Download(ctx context.Context, url string) (*Download, error) {
	start := time.Now()

	if _, err := fsutil.EnsureDir(y.Config.DownloadDir); err != nil {
		return nil, &model.FetchError{URL: url, Reason: "dossier de téléchargement", Err: err}
	}

	args := y.Config.BuildArgs(url)
	y.logger.Debug().Strs("args", args).Msg("executing")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, y.exe(), args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if y.Progress != nil {
		cmd.Stderr = io.MultiWriter(&stderr, y.Progress)
	}

	runErr := cmd.Run()
	warnings, errLines := scanStderr(stderr.String())

	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		reason := "yt-dlp a échoué"
		if len(errLines) > 0 {
			reason = strings.Join(errLines, "; ")
		}
		return nil, &model.FetchError{URL: url, Reason: reason, Err: runErr}
	}

	path := parseFilepath(stdout.String())
	if path == "" {
		return nil, &model.FetchError{URL: url, Reason: "aucun fichier annoncé par yt-dlp"}
	}
	if !fsutil.FileExists(path) {
		return nil, &model.FetchError{URL: url, Reason: "fichier introuvable après téléchargement", Err: errors.New(path)}
	}

	dl := &Download{Path: path, Warnings: warnings}
	if y.Warnings != nil {
		dl.PrintWarnings(y.Warnings)
	}
	y.logger.Info().
		Str("path", path).
		Dur("elapsed", time.Since(start)).
		Int("warnings", len(warnings)).
		Msg("downloaded")
	return dl, nil
}

// parseFilepath retourne la dernière ligne de stdout qui ressemble à un chemin.
// Les lignes "[...]" sont des messages de yt-dlp.
func parseFilepath(out string) string {
	lines := splitLines(out)
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		return line
	}
	return ""
}

// scanStderr sépare les lignes WARNING: et ERROR: de la sortie d'erreur.
func scanStderr(out string) (warnings, errs []string) {
	for _, line := range splitLines(out) {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "WARNING:"):
			warnings = append(warnings, strings.TrimSpace(strings.TrimPrefix(line, "WARNING:")))
		case strings.HasPrefix(line, "ERROR:"):
			errs = append(errs, strings.TrimSpace(strings.TrimPrefix(line, "ERROR:")))
		}
	}
	return warnings, errs
}
