package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/patrickprogramme/gifcut/internal/clipboard"
)

// ErrEmptyInput : l'utilisateur a validé une ligne vide (ou stdin est fermé).
var ErrEmptyInput = errors.New("aucune saisie")

var errTimeout = errors.New("délai de saisie dépassé")

type terminalUI struct {
	in  *lineReader
	out io.Writer
	err io.Writer

	// readClipboard est remplaçable dans les tests
	readClipboard func() (string, error)
}

func NewTerminal() Interface {
	return newTerminal(os.Stdin, os.Stdout, os.Stderr)
}

func newTerminal(in io.Reader, out, errOut io.Writer) *terminalUI {
	return &terminalUI{
		in:            newLineReader(in),
		out:           out,
		err:           errOut,
		readClipboard: clipboard.ReadAll,
	}
}

func (t *terminalUI) GetVideoURL(ctx context.Context, useClipboard bool) (string, error) {
	// 1) clipboard
	if useClipboard && t.readClipboard != nil {
		if clip, err := t.readClipboard(); err == nil {
			clip = strings.TrimSpace(clip)
			if IsHTTPURL(clip) {
				t.PrintInfo(ctx, fmt.Sprintf("Utilisation de l'URL depuis le presse-papier : %s", clip))
				return clip, nil
			}
		}
	}

	// 2) prompt
	fmt.Fprint(t.out, "Collez l'URL de la vidéo puis appuyez sur Entrée : ")
	line, err := t.in.ReadLine(ctx, nil)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrEmptyInput
		}
		return "", err
	}
	u := strings.TrimSpace(line)
	if u == "" {
		return "", ErrEmptyInput
	}
	return u, nil
}

func (t *terminalUI) PromptWithTimeout(ctx context.Context, message string, timeout time.Duration, def string) string {
	fmt.Fprintf(t.out, "%s (attente %s...)\n", message, formatTimeout(timeout))

	t.in.discardPending()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	line, err := t.in.ReadLine(ctx, timer.C)
	if err == nil {
		if v := CleanInput(line); v != "" {
			return v
		}
	}
	fmt.Fprintf(t.out, "\nAucune saisie. Utilisation du dossier par défaut : '%s'\n", def)
	return def
}

// CleanInput retire les espaces autour puis une couche de guillemets englobants
// ("..." ou '...'), comme lors d'un glisser-déposer de dossier dans un terminal.
func CleanInput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// IsHTTPURL : true si s est une URL absolue http(s) avec un hôte.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func formatTimeout(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%d secondes", int(d/time.Second))
	}
	return d.String()
}

func (t *terminalUI) WaitForExit(ctx context.Context) error {
	fmt.Fprintln(t.out, "\n\nAppuyez sur Ctrl+C pour quitter.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-sigCh:
		return nil
	}
}

func (t *terminalUI) PrintInfo(ctx context.Context, s string) {
	fmt.Fprintln(t.out, s)
}

func (t *terminalUI) PrintError(ctx context.Context, s string) {
	fmt.Fprintln(t.err, s)
}
