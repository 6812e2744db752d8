package ui

import (
	"context"
	"time"
)

type Interface interface {
	// GetVideoURL renvoie l'URL à télécharger.
	// Implémentation terminale : presse-papier (si useClipboard) -> prompt.
	// Une saisie vide renvoie ErrEmptyInput.
	GetVideoURL(ctx context.Context, useClipboard bool) (string, error)

	// PromptWithTimeout affiche message et attend une ligne au plus timeout.
	// Sans saisie (ou saisie vide) avant l'échéance, def est renvoyé tel quel.
	PromptWithTimeout(ctx context.Context, message string, timeout time.Duration, def string) string

	// WaitForExit bloque jusqu'à Ctrl+C ou annulation de ctx.
	WaitForExit(ctx context.Context) error

	PrintInfo(ctx context.Context, s string)
	PrintError(ctx context.Context, s string)
}
