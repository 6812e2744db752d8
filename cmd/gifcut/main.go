package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/patrickprogramme/gifcut/internal/app"
	"github.com/patrickprogramme/gifcut/internal/assets"
	"github.com/patrickprogramme/gifcut/internal/bootstrap"
	"github.com/patrickprogramme/gifcut/internal/config"
	"github.com/patrickprogramme/gifcut/internal/logging"
	"github.com/patrickprogramme/gifcut/internal/report"
	"github.com/patrickprogramme/gifcut/internal/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const defaultConfigName = "gifcut.yaml"

// version est injectée au build : -ldflags "-X main.version=..."
var version = "dev"

var (
	flags     = &app.CLIFlags{}
	forceInit bool
)

func main() {
	// root context qui s'annule sur SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, app.ErrNoURL) {
			fmt.Fprintf(os.Stderr, "erreur : %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "gifcut",
	Short:         "gifcut - télécharge une vidéo et la découpe en GIFs",
	Long:          "Télécharge une vidéo depuis une URL (yt-dlp ou moteur natif) puis la découpe en GIFs de longueur fixe avec ffmpeg.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env optionnel : les variables GIFCUT_* déjà définies restent prioritaires
		_ = godotenv.Load()
		logging.Init(flags.Verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.WithComponent("main")
		binDir := executableDir()

		// emplacement config par défaut : à côté du binaire
		if flags.ConfigPath == "" {
			flags.ConfigPath = filepath.Join(binDir, defaultConfigName)
		}
		if _, err := bootstrap.EnsureConfigPresent(flags.ConfigPath, assets.Embedded, assets.DefaultConfigAsset); err != nil {
			logger.Warn().Err(err).Msg("ensure config present")
		}

		tplDir := filepath.Join(binDir, "templates")
		if err := bootstrap.EnsureTemplatesPresent(tplDir, assets.Embedded, assets.DefaultTemplatePaths); err != nil {
			logger.Warn().Err(err).Msg("ensure templates present")
		}

		cfg, err := config.Load(flags.ConfigPath)
		if err != nil {
			return fmt.Errorf("config load: %w", err)
		}
		if cfg.Verbose && !flags.Verbose {
			logging.Init(true)
		}
		logger.Debug().Str("config", cfg.FilePath()).Msg("config loaded")

		warnings, err := cfg.ValidateTools()
		if err != nil {
			return fmt.Errorf("outils externes: %w", err)
		}
		for _, w := range warnings {
			logger.Warn().Msg(w)
		}

		renderer, err := report.DefaultRenderer(tplDir)
		if err != nil {
			logger.Warn().Err(err).Msg("report renderer disabled")
			renderer = nil
		}

		a := app.New(cfg, ui.NewTerminal(), flags, renderer, log.Logger)
		return a.Run(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Affiche la version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gifcut %s\n", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init [dossier]",
	Short: "Exporte la config et les templates par défaut (à côté du binaire par défaut)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest := executableDir()
		if len(args) == 1 {
			dest = args[0]
		}
		status, err := bootstrap.ExportDefaults(assets.Embedded, ".", dest, forceInit)
		names := make([]string, 0, len(status))
		for name := range status {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", name, status[name])
		}
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "fichier de config (défaut : gifcut.yaml à côté du binaire)")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "logs détaillés")
	rootCmd.Flags().StringVar(&flags.URL, "url", "", "URL de la vidéo (sinon presse-papier puis saisie)")
	rootCmd.Flags().StringVarP(&flags.OutDir, "out", "o", "", "dossier de sortie (nom sous output_base_dir ou chemin absolu)")

	initCmd.Flags().BoolVar(&forceInit, "force", false, "écrase les fichiers modifiés (avec sauvegarde .bak)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}

// executableDir : dossier du binaire, "." si indéterminable.
func executableDir() string {
	exePath, err := os.Executable()
	if err != nil {
		log.Warn().Err(err).Msg("impossible de déterminer le chemin de l'exécutable")
		return "."
	}
	return filepath.Dir(exePath)
}
