package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDuration : durée ou longueur de clip nulle/négative.
var ErrInvalidDuration = errors.New("durée invalide")

// FetchError : la ressource distante n'a pas pu être résolue ou téléchargée.
// Fatal pour le run, pas de retry.
type FetchError struct {
	URL    string
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ProbeError : outil d'inspection absent, en échec, ou durée illisible.
type ProbeError struct {
	Path   string
	Output string // sortie brute de l'outil (tronquée)
	Err    error
}

func (e *ProbeError) Error() string {
	msg := fmt.Sprintf("probe %s: %v", e.Path, e.Err)
	if e.Output != "" {
		msg += ", output: " + e.Output
	}
	return msg
}

func (e *ProbeError) Unwrap() error { return e.Err }

// ClipError : l'encodage d'un clip a échoué (exit status non nul ou fichier absent).
type ClipError struct {
	Clip   Clip
	Output string // fin de la sortie combinée de l'encodeur
	Err    error
}

func (e *ClipError) Error() string {
	msg := fmt.Sprintf("%s -> %s: %v", e.Clip, e.Clip.Output, e.Err)
	if e.Output != "" {
		msg += ", output: " + e.Output
	}
	return msg
}

func (e *ClipError) Unwrap() error { return e.Err }

// SegmentError agrège les échecs d'une segmentation.
// Aborted vaut true si le plan a été interrompu au premier échec.
type SegmentError struct {
	Failed  []*ClipError
	Planned int
	Aborted bool
}

func (e *SegmentError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d clip(s) en échec", len(e.Failed), e.Planned)
	if e.Aborted {
		b.WriteString(" (plan interrompu)")
	}
	for _, f := range e.Failed {
		b.WriteString("\n  - ")
		b.WriteString(f.Error())
	}
	return b.String()
}

// Unwrap expose les erreurs de clips pour errors.Is / errors.As.
func (e *SegmentError) Unwrap() []error {
	out := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		out = append(out, f)
	}
	return out
}
