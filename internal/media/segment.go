package media

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/patrickprogramme/gifcut/internal/fsutil"
	"github.com/patrickprogramme/gifcut/pkg/model"
	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// SegmentOptions : paramètres du découpage en GIFs.
type SegmentOptions struct {
	ClipLength  float64 // secondes
	FPS         int
	Width       int
	ScaleFlags  string
	StopOnError bool // true : le premier clip en échec interrompt le plan
}

// DefaultSegmentOptions : 3 s, 15 fps, 480 px, lanczos, on continue après un échec.
func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{
		ClipLength: 3.0,
		FPS:        15,
		Width:      480,
		ScaleFlags: "lanczos",
	}
}

// Hooks : callbacks optionnels pour l'affichage de la progression.
type Hooks struct {
	OnDir  func(dir string, created, hasFiles bool) // hasFiles : dossier réutilisé non vide
	OnPlan func(plan model.ClipPlan)
	OnClip func(res model.ClipResult)
}

// Segmenter découpe une vidéo en GIFs avec ffmpeg, un appel par clip.
type Segmenter struct {
	ffmpegPath string
	opts       SegmentOptions
	logger     zerolog.Logger
}

func NewSegmenter(ffmpegPath string, opts SegmentOptions, logger zerolog.Logger) *Segmenter {
	return &Segmenter{
		ffmpegPath: ffmpegPath,
		opts:       opts,
		logger:     logger.With().Str("component", "ffmpeg").Logger(),
	}
}

// PlanClips calcule ceil(duration/clipLength) clips démarrant à 0, L, 2L, ...
// Le dernier clip garde sa longueur nominale : ffmpeg s'arrête à la fin de la source.
func PlanClips(duration, clipLength float64, outputDir string) (model.ClipPlan, error) {
	if !(duration > 0) || math.IsInf(duration, 0) {
		return model.ClipPlan{}, fmt.Errorf("%w: durée %v", model.ErrInvalidDuration, duration)
	}
	if !(clipLength > 0) || math.IsInf(clipLength, 0) {
		return model.ClipPlan{}, fmt.Errorf("%w: longueur de clip %v", model.ErrInvalidDuration, clipLength)
	}

	// la division flottante peut tomber juste au-dessus ou au-dessous d'un entier :
	// le dernier départ doit rester < duration et la couverture atteindre duration
	count := int(math.Ceil(duration / clipLength))
	for count > 1 && float64(count-1)*clipLength >= duration {
		count--
	}
	for float64(count)*clipLength < duration {
		count++
	}
	if count < 1 {
		count = 1
	}

	plan := model.ClipPlan{
		Duration:   duration,
		ClipLength: clipLength,
		OutputDir:  outputDir,
		Clips:      make([]model.Clip, 0, count),
	}
	for i := 0; i < count; i++ {
		plan.Clips = append(plan.Clips, model.Clip{
			Index:  i + 1,
			Start:  float64(i) * clipLength,
			Length: clipLength,
			Output: model.ClipPath(outputDir, i+1),
		})
	}
	return plan, nil
}

// ClipArgs construit les arguments ffmpeg d'un clip : écrasement sans question,
// seek avant l'entrée, durée plafonnée, filtre fps + scale.
func (s *Segmenter) ClipArgs(src string, c model.Clip) []string {
	input := ffmpeg.Input(src, ffmpeg.KwArgs{
		"ss": model.FormatSeconds(c.Start),
		"t":  model.FormatSeconds(c.Length),
	})
	out := input.Output(c.Output, ffmpeg.KwArgs{
		"vf": GIFFilter(s.opts.FPS, s.opts.Width, s.opts.ScaleFlags),
	}).OverWriteOutput()

	args := []string{"-hide_banner", "-loglevel", "error"}
	return append(args, out.GetArgs()...)
}

// EncodeClip produit un GIF. Toute erreur est une *model.ClipError.
func (s *Segmenter) EncodeClip(ctx context.Context, src string, c model.Clip) error {
	res, err := run(ctx, s.logger, s.ffmpegPath, s.ClipArgs(src, c))
	if err != nil {
		return &model.ClipError{Clip: c, Output: tail(append(res.Stderr, res.Stdout...)), Err: err}
	}
	if !fsutil.FileExists(c.Output) {
		return &model.ClipError{Clip: c, Output: tail(res.Stderr), Err: errors.New("fichier de sortie absent")}
	}
	return nil
}

// Segment crée outputDir si besoin, planifie les clips à partir de src.Duration
// puis encode chaque clip. Les échecs sont collectés dans une *model.SegmentError ;
// avec StopOnError le plan s'arrête au premier échec et les clips restants sont "skipped".
// Une annulation de ctx interrompt le plan et retourne ctx.Err().
func (s *Segmenter) Segment(ctx context.Context, src model.SourceVideo, outputDir string, hooks Hooks) (*model.SegmentReport, error) {
	plan, err := PlanClips(src.Duration, s.opts.ClipLength, outputDir)
	if err != nil {
		return nil, err
	}

	created, err := fsutil.EnsureDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("dossier de sortie: %w", err)
	}
	hasFiles := false
	if !created {
		empty, err := fsutil.IsDirEmpty(outputDir)
		if err != nil {
			return nil, fmt.Errorf("dossier de sortie: %w", err)
		}
		hasFiles = !empty
	}
	if hooks.OnDir != nil {
		hooks.OnDir(outputDir, created, hasFiles)
	}
	if hooks.OnPlan != nil {
		hooks.OnPlan(plan)
	}

	report := &model.SegmentReport{
		Plan:       plan,
		Results:    make([]model.ClipResult, 0, plan.Count()),
		DirCreated: created,
	}

	s.logger.Info().
		Str("input", src.Path).
		Str("output_dir", outputDir).
		Int("clips", plan.Count()).
		Float64("clip_length", plan.ClipLength).
		Msg("segmenting")

	var failed []*model.ClipError
	stopped := false
	for _, c := range plan.Clips {
		if stopped {
			report.Results = append(report.Results, model.ClipResult{Clip: c, Status: model.ClipSkipped})
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		start := time.Now()
		encErr := s.EncodeClip(ctx, src.Path, c)
		res := model.ClipResult{Clip: c, Status: model.ClipSaved, Elapsed: time.Since(start)}

		if encErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			res.Status = model.ClipFailed
			res.Err = encErr
			var ce *model.ClipError
			if errors.As(encErr, &ce) {
				failed = append(failed, ce)
			}
			s.logger.Warn().Err(encErr).Int("index", c.Index).Msg("clip failed")
			if s.opts.StopOnError {
				stopped = true
			}
		}

		report.Results = append(report.Results, res)
		if hooks.OnClip != nil {
			hooks.OnClip(res)
		}
	}

	if len(failed) > 0 {
		return report, &model.SegmentError{Failed: failed, Planned: plan.Count(), Aborted: stopped}
	}
	return report, nil
}
