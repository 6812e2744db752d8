package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// maxOutputTail : nombre d'octets de sortie conservés dans les erreurs.
const maxOutputTail = 512

// runResult contient les sorties d'un outil externe.
type runResult struct {
	Stdout []byte
	Stderr []byte
}

// run exécute exe avec args et attend la fin. Une erreur est retournée si le
// binaire est introuvable, si ctx est annulé ou si l'exit status est non nul.
func run(ctx context.Context, logger zerolog.Logger, exe string, args []string) (runResult, error) {
	var res runResult
	if exe == "" {
		return res, fmt.Errorf("exécutable non configuré")
	}

	logger.Debug().Str("cmd", exe).Strs("args", args).Msg("executing")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return res, fmt.Errorf("%s a échoué (exit %d): %w", exe, exitErr.ExitCode(), err)
		}
		return res, fmt.Errorf("exécution de %s impossible: %w", exe, err)
	}
	return res, nil
}

// tail retourne la fin de out, nettoyée, pour les messages d'erreur.
func tail(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) > maxOutputTail {
		s = "…" + s[len(s)-maxOutputTail:]
	}
	return s
}
