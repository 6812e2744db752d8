package media

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/patrickprogramme/gifcut/internal/fsutil"
	"github.com/patrickprogramme/gifcut/pkg/model"
	"github.com/rs/zerolog"
)

// Prober mesure la durée d'un fichier média avec ffprobe.
type Prober struct {
	ffprobePath string
	logger      zerolog.Logger
}

// NewProber crée une sonde utilisant l'exécutable ffprobe donné.
func NewProber(ffprobePath string, logger zerolog.Logger) *Prober {
	return &Prober{
		ffprobePath: ffprobePath,
		logger:      logger.With().Str("component", "ffprobe").Logger(),
	}
}

// ProbeArgs : uniquement la durée déclarée du conteneur, sans clé ni wrapper.
func ProbeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

// Duration retourne la durée de path en secondes.
// Toute erreur est une *model.ProbeError.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	if !fsutil.FileExists(path) {
		return 0, &model.ProbeError{Path: path, Err: errors.New("fichier introuvable")}
	}

	res, err := run(ctx, p.logger, p.ffprobePath, ProbeArgs(path))
	if err != nil {
		return 0, &model.ProbeError{Path: path, Output: tail(append(res.Stdout, res.Stderr...)), Err: err}
	}

	d, err := ParseDuration(string(res.Stdout))
	if err != nil {
		return 0, &model.ProbeError{Path: path, Output: tail(res.Stdout), Err: err}
	}

	p.logger.Debug().Str("path", path).Float64("duration", d).Msg("duration probed")
	return d, nil
}

// ParseDuration lit l'unique token numérique produit par ffprobe.
// La valeur doit être un flottant fini strictement positif.
func ParseDuration(out string) (float64, error) {
	fields := strings.Fields(out)
	if len(fields) != 1 {
		return 0, fmt.Errorf("%w: un seul nombre attendu, reçu %q", model.ErrInvalidDuration, strings.TrimSpace(out))
	}
	d, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q n'est pas un nombre", model.ErrInvalidDuration, fields[0])
	}
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return 0, fmt.Errorf("%w: %v", model.ErrInvalidDuration, d)
	}
	return d, nil
}
