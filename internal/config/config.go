package config

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/patrickprogramme/gifcut/internal/assets"
	"github.com/patrickprogramme/gifcut/internal/fsutil"
	"gopkg.in/yaml.v3"
)

const CurrentConfigVersion = 2

// valeurs par défaut partagées avec normalizeConfig
const (
	DefaultClipLength    = 3.0
	DefaultClipFPS       = 15
	DefaultClipWidth     = 480
	DefaultScaleFlags    = "lanczos"
	DefaultPromptTimeout = 3 * time.Second
	DefaultFormat        = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	DefaultOutTemplate   = "%(title)s [%(id)s].%(ext)s"
)

// Politiques en cas d'échec d'un clip
const (
	OnErrorContinue = "continue"
	OnErrorAbort    = "abort"
)

// Moteurs de téléchargement
const (
	EngineYtDlp  = "yt-dlp"
	EngineNative = "native"
)

// Tool décrit un exécutable externe : nom, chemin configuré, chemin résolu.
type Tool struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`

	// ResolvedPath contient le chemin effectif vers l'exécutable
	ResolvedPath string `yaml:"-"`
}

// Exe retourne le chemin résolu, ou le nom à défaut.
func (t Tool) Exe() string {
	if t.ResolvedPath != "" {
		return t.ResolvedPath
	}
	return t.Name
}

// struct pour les paramètres de configuration
type Config struct {
	// Chemins
	DownloadDir        string `yaml:"download_dir"`
	OutputBaseDir      string `yaml:"output_base_dir"`
	DeriveOutputSubdir bool   `yaml:"derive_output_subdir"`

	// Prompt dossier de sortie
	PromptTimeout time.Duration `yaml:"prompt_timeout"`

	// Découpage
	Clip struct {
		Length     float64 `yaml:"length"`
		FPS        int     `yaml:"fps"`
		Width      int     `yaml:"width"`
		ScaleFlags string  `yaml:"scale_flags"`
		OnError    string  `yaml:"on_error"`
	} `yaml:"clip"`

	// Téléchargement
	Fetch struct {
		Engine         string `yaml:"engine"`
		Format         string `yaml:"format"`
		OutputTemplate string `yaml:"output_template"`
		ShowProgress   bool   `yaml:"show_progress"`
	} `yaml:"fetch"`

	// Presse-papier / fin de run
	URLFromClipboard bool `yaml:"url_from_clipboard"`
	CopyOutputDir    bool `yaml:"copy_output_dir"`
	WriteReport      bool `yaml:"write_report"`
	WaitForExit      bool `yaml:"wait_for_exit"`
	Verbose          bool `yaml:"verbose"`

	// Outils externes
	YtDlp struct {
		Tool            `yaml:",inline"`
		ShowWarnings    bool `yaml:"show_warnings"`
		AutoUpdateCheck bool `yaml:"auto_update_check"`
	} `yaml:"yt_dlp"`
	FFmpeg  Tool `yaml:"ffmpeg"`
	FFprobe Tool `yaml:"ffprobe"`

	ConfigVersion int `yaml:"config_version"`

	configFilePath string
}

// Configuration par défaut (fallback si l'asset embarqué est manquant)
func defaultConfig() *Config {
	c := &Config{}

	// Chemins
	c.DownloadDir = "downloads"
	c.OutputBaseDir = "gifs"
	c.DeriveOutputSubdir = true

	c.PromptTimeout = DefaultPromptTimeout

	// Découpage
	c.Clip.Length = DefaultClipLength
	c.Clip.FPS = DefaultClipFPS
	c.Clip.Width = DefaultClipWidth
	c.Clip.ScaleFlags = DefaultScaleFlags
	c.Clip.OnError = OnErrorContinue

	// Téléchargement
	c.Fetch.Engine = EngineYtDlp
	c.Fetch.Format = DefaultFormat
	c.Fetch.OutputTemplate = DefaultOutTemplate
	c.Fetch.ShowProgress = true

	c.URLFromClipboard = true
	c.CopyOutputDir = false
	c.WriteReport = true
	c.WaitForExit = false

	// outils
	c.YtDlp.Name = "yt-dlp"
	c.YtDlp.ShowWarnings = false
	c.YtDlp.AutoUpdateCheck = false
	c.FFmpeg.Name = "ffmpeg"
	c.FFprobe.Name = "ffprobe"

	c.ConfigVersion = CurrentConfigVersion

	return c
}

// Default retourne une configuration par défaut normalisée (sans fichier).
func Default() *Config {
	c := defaultConfig()
	c.normalizeConfig()
	return c
}

// Load lit la config; si le fichier n'existe pas, on copie l'exemple embarqué depuis internal/assets.
// Les variables d'environnement GIFCUT_* sont appliquées après le YAML.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "gifcut.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultConfigFromEmbedded(path); err != nil {
			return nil, fmt.Errorf("échec de création du fichier de configuration par défaut : %w", err)
		}
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lecture du fichier de configuration %s impossible : %w", path, err)
	}

	// corriger les chemins Windows avec des backslashes
	data = bytes.ReplaceAll(data, []byte(`\`), []byte(`/`))

	// les champs absents conservent les valeurs par défaut, sauf la version :
	// un fichier sans config_version doit être migré
	cfg.ConfigVersion = 0
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("analyse du fichier de configuration %s impossible : %w", path, err)
	}
	cfg.configFilePath = path

	// une config sans version date d'avant le champ
	if cfg.ConfigVersion < CurrentConfigVersion {
		if err := orchestrateConfigUpgrade(cfg, cfg.ConfigVersion); err != nil {
			return nil, fmt.Errorf("échec de mise à niveau de la configuration : %w", err)
		}
	}

	for _, w := range cfg.ApplyEnv(os.LookupEnv) {
		fmt.Fprintf(os.Stderr, "warning : %s\n", w)
	}
	cfg.normalizeConfig()

	return cfg, nil
}

// FilePath retourne le chemin du fichier chargé ("" si config par défaut).
func (c *Config) FilePath() string {
	return c.configFilePath
}

func createDefaultConfigFromEmbedded(dstPath string) error {
	b, err := assets.Embedded.ReadFile(assets.DefaultConfigAsset)
	if err != nil {
		return fmt.Errorf("lecture du modèle de configuration embarqué impossible : %w", err)
	}

	if err := fsutil.WriteFileAtomic(dstPath, b, fsutil.FilePerm); err != nil {
		return fmt.Errorf("échec d'écriture du fichier de configuration %s : %w", dstPath, err)
	}

	fmt.Printf("info : fichier de configuration par défaut créé : %s\n", dstPath)
	return nil
}

func (c *Config) normalizeConfig() {
	c.DownloadDir = filepath.Clean(strings.TrimSpace(c.DownloadDir))
	c.OutputBaseDir = filepath.Clean(strings.TrimSpace(c.OutputBaseDir))

	if c.PromptTimeout <= 0 {
		c.PromptTimeout = DefaultPromptTimeout
	}

	if c.Clip.Length <= 0 {
		c.Clip.Length = DefaultClipLength
	}
	if c.Clip.FPS <= 0 {
		c.Clip.FPS = DefaultClipFPS
	}
	if c.Clip.Width <= 0 {
		c.Clip.Width = DefaultClipWidth
	}
	c.Clip.ScaleFlags = strings.TrimSpace(c.Clip.ScaleFlags)
	if c.Clip.ScaleFlags == "" {
		c.Clip.ScaleFlags = DefaultScaleFlags
	}
	c.Clip.OnError = strings.ToLower(strings.TrimSpace(c.Clip.OnError))
	if c.Clip.OnError != OnErrorAbort {
		c.Clip.OnError = OnErrorContinue
	}

	c.Fetch.Engine = strings.ToLower(strings.TrimSpace(c.Fetch.Engine))
	if c.Fetch.Engine != EngineNative {
		c.Fetch.Engine = EngineYtDlp
	}
	if strings.TrimSpace(c.Fetch.Format) == "" {
		c.Fetch.Format = DefaultFormat
	}
	if strings.TrimSpace(c.Fetch.OutputTemplate) == "" {
		c.Fetch.OutputTemplate = DefaultOutTemplate
	}

	c.ResolveToolPaths()
}

// ResolveToolPaths normalise les noms et résout les chemins des exécutables.
// Appeler après avoir modifié un Name ou un Path.
func (c *Config) ResolveToolPaths() {
	if c == nil {
		return
	}
	resolveTool(&c.YtDlp.Tool, "yt-dlp")
	resolveTool(&c.FFmpeg, "ffmpeg")
	resolveTool(&c.FFprobe, "ffprobe")
}

// resolveTool :
// - Path vide -> recherche dans PATH (ResolvedPath reste vide si introuvable)
// - Path finissant par l'exécutable -> utilisé tel quel
// - sinon Path est un répertoire auquel on joint l'exécutable
func resolveTool(t *Tool, fallbackName string) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		t.Name = fallbackName
	}
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(t.Name), ".exe") {
		t.Name = t.Name + ".exe"
	}

	cfgPath := strings.TrimSpace(t.Path)
	if cfgPath == "" {
		if p, err := exec.LookPath(t.Name); err == nil {
			t.ResolvedPath = p
		} else {
			t.ResolvedPath = ""
		}
		return
	}

	cleanPath := filepath.Clean(cfgPath)
	if filepath.Base(cleanPath) == t.Name {
		t.ResolvedPath = cleanPath
	} else {
		t.ResolvedPath = filepath.Join(cleanPath, t.Name)
	}
}
