package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/patrickprogramme/gifcut/internal/clipboard"
	"github.com/patrickprogramme/gifcut/internal/config"
	"github.com/patrickprogramme/gifcut/internal/fsutil"
	"github.com/patrickprogramme/gifcut/internal/media"
	"github.com/patrickprogramme/gifcut/internal/report"
	"github.com/patrickprogramme/gifcut/internal/ui"
	"github.com/patrickprogramme/gifcut/internal/yt"
	"github.com/patrickprogramme/gifcut/pkg/model"
	"github.com/rs/zerolog"
)

const defaultUpdateTimeout = 15 * time.Second

// ErrNoURL : aucune URL fournie, le run s'arrête avant tout téléchargement.
var ErrNoURL = errors.New("aucune URL fournie")

// CLIFlags contient les informations venant des flags de l'app
type CLIFlags struct {
	ConfigPath string
	URL        string
	OutDir     string
	Verbose    bool
}

// Prober mesure la durée d'un fichier média (ffprobe).
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Segmenter découpe la vidéo en GIFs (ffmpeg).
type Segmenter interface {
	Segment(ctx context.Context, src model.SourceVideo, outputDir string, hooks media.Hooks) (*model.SegmentReport, error)
}

// App orchestre les différentes dépendances (UI, fetcher, ffprobe, ffmpeg...)
type App struct {
	cfg      *config.Config
	ui       ui.Interface
	flags    *CLIFlags
	renderer *report.Renderer
	base     zerolog.Logger // transmis aux composants
	logger   zerolog.Logger

	// initialisés dans Run s'ils sont nil (les tests injectent des fakes)
	fetcher   yt.Fetcher
	prober    Prober
	segmenter Segmenter

	runID     string
	now       func() time.Time
	writeClip func(string) error
}

// New construit l'application. Les outils externes sont initialisés dans Run.
// Pour les tests, on préférera construire App en injectant des implémentations factices.
func New(cfg *config.Config, uiClient ui.Interface, flags *CLIFlags, renderer *report.Renderer, logger zerolog.Logger) *App {
	if flags == nil {
		flags = &CLIFlags{}
	}
	id := uuid.NewString()
	base := logger.With().Str("run_id", id).Logger()
	return &App{
		cfg:       cfg,
		ui:        uiClient,
		flags:     flags,
		renderer:  renderer,
		base:      base,
		logger:    base.With().Str("component", "app").Logger(),
		runID:     id,
		now:       time.Now,
		writeClip: clipboard.WriteAll,
	}
}

// Run exécute le flux principal : URL -> téléchargement -> dossier de sortie
// -> durée -> découpage -> rapport. Toute erreur retournée met fin au run.
func (a *App) Run(ctx context.Context) error {
	a.ui.PrintInfo(ctx, "=== gifcut : vidéo -> GIFs ===")

	url, err := a.resolveURL(ctx)
	if err != nil {
		return err
	}
	a.logger.Info().Str("url", url).Msg("run started")

	if err := a.initTools(ctx); err != nil {
		return err
	}

	a.ui.PrintInfo(ctx, "Téléchargement de la vidéo...")
	path, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("téléchargement: %w", err)
	}
	a.ui.PrintInfo(ctx, fmt.Sprintf("Vidéo téléchargée : %s", path))

	outDir := a.chooseOutputDir(ctx, path)

	dur, err := a.prober.Duration(ctx, path)
	if err != nil {
		return fmt.Errorf("durée: %w", err)
	}
	src := model.SourceVideo{Path: path, Duration: dur}
	a.ui.PrintInfo(ctx, fmt.Sprintf("Durée de la vidéo : %.2f secondes", dur))

	rep, segErr := a.segmenter.Segment(ctx, src, outDir, a.progressHooks(ctx))
	if segErr != nil {
		var se *model.SegmentError
		if rep == nil || !errors.As(segErr, &se) {
			return fmt.Errorf("découpage: %w", segErr)
		}
	}

	if a.cfg.WriteReport && a.renderer != nil {
		a.writeReport(ctx, url, src, rep)
	}
	if a.cfg.CopyOutputDir {
		a.copyOutputDir(ctx, outDir)
	}
	a.printSummary(ctx, src, outDir, rep)

	if a.cfg.WaitForExit {
		if err := a.ui.WaitForExit(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	if segErr != nil {
		return fmt.Errorf("découpage: %w", segErr)
	}
	return nil
}

// resolveURL : priorité flag > presse-papier > prompt.
func (a *App) resolveURL(ctx context.Context) (string, error) {
	if u := ui.CleanInput(a.flags.URL); u != "" {
		return u, nil
	}
	u, err := a.ui.GetVideoURL(ctx, a.cfg.URLFromClipboard)
	if err != nil {
		if errors.Is(err, ui.ErrEmptyInput) {
			a.ui.PrintError(ctx, "Aucune URL fournie. Arrêt.")
			return "", ErrNoURL
		}
		return "", fmt.Errorf("get url: %w", err)
	}
	return u, nil
}

// initTools construit les collaborateurs absents à partir de la config.
func (a *App) initTools(ctx context.Context) error {
	if a.fetcher == nil {
		f, version, err := yt.NewFetcher(ctx, a.cfg, a.progressWriter(), a.warningWriter(), a.base)
		if err != nil {
			return fmt.Errorf("init fetcher: %w", err)
		}
		a.fetcher = f
		if version != "" {
			a.logger.Debug().Str("version", version).Msg("yt-dlp ready")
			if a.cfg.YtDlp.AutoUpdateCheck {
				if err := a.YtDlpUpdateCheck(ctx, defaultUpdateTimeout, version); err != nil {
					a.logger.Warn().Err(err).Msg("update check failed")
				}
			}
		}
	}
	if a.prober == nil {
		a.prober = media.NewProber(a.cfg.FFprobe.Exe(), a.base)
	}
	if a.segmenter == nil {
		a.segmenter = media.NewSegmenter(a.cfg.FFmpeg.Exe(), a.segmentOptions(), a.base)
	}
	return nil
}

func (a *App) segmentOptions() media.SegmentOptions {
	return media.SegmentOptions{
		ClipLength:  a.cfg.Clip.Length,
		FPS:         a.cfg.Clip.FPS,
		Width:       a.cfg.Clip.Width,
		ScaleFlags:  a.cfg.Clip.ScaleFlags,
		StopOnError: a.cfg.Clip.OnError == config.OnErrorAbort,
	}
}

// chooseOutputDir : flag --out, sinon prompt minuté avec le dossier par défaut.
func (a *App) chooseOutputDir(ctx context.Context, videoPath string) string {
	def := a.defaultOutputDir(videoPath)
	if a.flags.OutDir != "" {
		return ResolveOutputDir(a.flags.OutDir, a.cfg.OutputBaseDir, def)
	}
	msg := fmt.Sprintf("Nom ou chemin du dossier de sortie (Entrée = %s)", def)
	input := a.ui.PromptWithTimeout(ctx, msg, a.cfg.PromptTimeout, def)
	return ResolveOutputDir(input, a.cfg.OutputBaseDir, def)
}

func (a *App) defaultOutputDir(videoPath string) string {
	if a.cfg.DeriveOutputSubdir {
		return filepath.Join(a.cfg.OutputBaseDir, fsutil.DerivedFolderName(videoPath))
	}
	return a.cfg.OutputBaseDir
}

// ResolveOutputDir interprète la saisie : vide ou égale au défaut -> def,
// chemin absolu -> tel quel, sinon nom de dossier sous base.
func ResolveOutputDir(input, base, def string) string {
	input = ui.CleanInput(input)
	switch {
	case input == "" || input == def:
		return def
	case filepath.IsAbs(input):
		return filepath.Clean(input)
	default:
		return filepath.Join(base, input)
	}
}

func (a *App) progressHooks(ctx context.Context) media.Hooks {
	total := 0
	return media.Hooks{
		OnDir: func(dir string, created, hasFiles bool) {
			switch {
			case created:
				a.ui.PrintInfo(ctx, fmt.Sprintf("Dossier de sortie créé : %s", dir))
			case hasFiles:
				a.ui.PrintInfo(ctx, fmt.Sprintf("Dossier de sortie existant utilisé : %s (les GIFs de même numéro seront écrasés)", dir))
			default:
				a.ui.PrintInfo(ctx, fmt.Sprintf("Dossier de sortie existant utilisé : %s", dir))
			}
		},
		OnPlan: func(plan model.ClipPlan) {
			total = plan.Count()
			a.ui.PrintInfo(ctx, fmt.Sprintf("Création de %d GIF(s) de %s secondes...", total, model.FormatSeconds(plan.ClipLength)))
		},
		OnClip: func(res model.ClipResult) {
			if res.Status == model.ClipSaved {
				a.ui.PrintInfo(ctx, fmt.Sprintf("  [%d/%d] %s enregistré (%s)", res.Clip.Index, total, res.Clip.Output, res.Elapsed.Round(time.Millisecond)))
				return
			}
			a.ui.PrintError(ctx, fmt.Sprintf("  [%d/%d] échec : %v", res.Clip.Index, total, res.Err))
		},
	}
}

func (a *App) writeReport(ctx context.Context, url string, src model.SourceVideo, rep *model.SegmentReport) {
	data := report.NewData(a.runID, url, src, rep, report.Settings{FPS: a.cfg.Clip.FPS, Width: a.cfg.Clip.Width}, a.now())
	path, err := a.renderer.Write(rep.Plan.OutputDir, data)
	if err != nil {
		a.ui.PrintError(ctx, fmt.Sprintf("warning: rapport non écrit : %v", err))
		return
	}
	a.logger.Debug().Str("path", path).Msg("report written")
}

func (a *App) copyOutputDir(ctx context.Context, outDir string) {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		abs = outDir
	}
	if err := a.writeClip(abs); err != nil {
		a.ui.PrintError(ctx, fmt.Sprintf("warning: impossible de copier le chemin dans le presse-papier : %v", err))
		return
	}
	a.ui.PrintInfo(ctx, "Chemin du dossier copié dans le presse-papier.")
}

func (a *App) printSummary(ctx context.Context, src model.SourceVideo, outDir string, rep *model.SegmentReport) {
	a.ui.PrintInfo(ctx, "")
	a.ui.PrintInfo(ctx, "=== Terminé ===")
	a.ui.PrintInfo(ctx, fmt.Sprintf("Vidéo : %s", src.Path))
	a.ui.PrintInfo(ctx, fmt.Sprintf("GIFs  : %s", outDir))
	if rep == nil {
		return
	}
	line := fmt.Sprintf("Clips : %d/%d enregistrés", rep.Saved(), rep.Plan.Count())
	if n := rep.Failed(); n > 0 {
		line += fmt.Sprintf(", %d en échec", n)
	}
	if n := rep.Skipped(); n > 0 {
		line += fmt.Sprintf(", %d non tentés", n)
	}
	a.ui.PrintInfo(ctx, line)
}
