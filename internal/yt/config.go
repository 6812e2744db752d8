package yt

import "path/filepath"

// YtDlpConfig représente les flags ajoutables quand on utilise yt-dlp
type YtDlpConfig struct {
	DownloadDir    string
	Format         string // sélecteur -f
	OutputTemplate string // template -o, relatif à DownloadDir
	NoWarnings     bool   // true => ajouter --no-warnings
	Progress       bool   // true => --progress (sinon --no-progress)
	NoUpdate       bool
	NoConfig       bool // true => ajouter --no-config pour ignorer les configs utilisateur
}

// NewYtDlpConfig initialise une configuration standard de yt-dlp, showWarning vient du yaml de config
func NewYtDlpConfig(downloadDir, format, template string, showWarning, progress bool) *YtDlpConfig {
	return &YtDlpConfig{
		DownloadDir:    downloadDir,
		Format:         format,
		OutputTemplate: template,
		NoWarnings:     !showWarning,
		Progress:       progress,
		NoUpdate:       true,
		NoConfig:       true,
	}
}

// BuildArgs construit une slice des arguments à passer à yt-dlp.
// Le chemin final du fichier (après fusion/déplacement) est imprimé sur stdout.
func (c *YtDlpConfig) BuildArgs(url string) []string {
	args := make([]string, 0, 14)
	// --no-config en tête : les configs locales ne doivent pas modifier le comportement
	if c.NoConfig {
		args = append(args, "--no-config")
	}
	if c.Format != "" {
		args = append(args, "-f", c.Format)
	}
	args = append(args, "-o", filepath.Join(c.DownloadDir, c.OutputTemplate))
	args = append(args, "--no-playlist", "--print", "after_move:filepath")
	if c.NoWarnings {
		args = append(args, "--no-warnings")
	}
	if c.Progress {
		args = append(args, "--progress")
	} else {
		args = append(args, "--no-progress")
	}
	if c.NoUpdate {
		args = append(args, "--no-update")
	}
	args = append(args, url)
	return args
}
