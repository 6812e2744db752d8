package model

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"
)

// SourceVideo est la vidéo téléchargée : un chemin local et sa durée (en secondes).
// Créée par le fetcher, complétée par la sonde de durée, jamais modifiée ensuite.
type SourceVideo struct {
	Path     string
	Duration float64
}

// Clip décrit un extrait GIF à produire.
type Clip struct {
	Index  int     // 1-based
	Start  float64 // secondes
	Length float64 // secondes (longueur nominale)
	Output string  // chemin du fichier gif
}

func (c Clip) String() string {
	return fmt.Sprintf("clip #%d (start=%ss, len=%ss)", c.Index, FormatSeconds(c.Start), FormatSeconds(c.Length))
}

// ClipFilename donne le nom de fichier d'un clip : output_<index>.gif
func ClipFilename(index int) string {
	return fmt.Sprintf("output_%d.gif", index)
}

// ClipPlan est la liste ordonnée des clips dérivée de la durée et de la longueur de clip.
type ClipPlan struct {
	Duration   float64
	ClipLength float64
	OutputDir  string
	Clips      []Clip
}

// Count retourne le nombre de clips prévus.
func (p ClipPlan) Count() int {
	return len(p.Clips)
}

// Starts retourne les offsets de départ, dans l'ordre.
func (p ClipPlan) Starts() []float64 {
	out := make([]float64, 0, len(p.Clips))
	for _, c := range p.Clips {
		out = append(out, c.Start)
	}
	return out
}

// ClipStatus : résultat d'un encodage.
type ClipStatus string

const (
	ClipSaved   ClipStatus = "saved"
	ClipFailed  ClipStatus = "failed"
	ClipSkipped ClipStatus = "skipped" // non tenté (mode abort après un échec)
)

// ClipResult associe un clip et son issue.
type ClipResult struct {
	Clip    Clip
	Status  ClipStatus
	Err     error
	Elapsed time.Duration
}

// SegmentReport résume une segmentation complète.
type SegmentReport struct {
	Plan    ClipPlan
	Results []ClipResult
	// DirCreated vaut true si le dossier de sortie n'existait pas avant le run.
	DirCreated bool
}

func (r SegmentReport) Saved() int {
	return r.count(ClipSaved)
}

func (r SegmentReport) Failed() int {
	return r.count(ClipFailed)
}

func (r SegmentReport) Skipped() int {
	return r.count(ClipSkipped)
}

func (r SegmentReport) count(s ClipStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// FormatSeconds formate un nombre de secondes sans zéros inutiles (3 -> "3", 1.5 -> "1.5").
func FormatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ClipPath construit le chemin de sortie d'un clip dans dir.
func ClipPath(dir string, index int) string {
	return filepath.Join(dir, ClipFilename(index))
}
