package updater

import (
	"context"
	"fmt"
	"strings"
)

// UpdateCheck : version locale comparée à la dernière release.
type UpdateCheck struct {
	CurrentVersion string
	Latest         *Release
	IsUpToDate     bool
}

// CheckYtDlpUpdate compare la version locale et la version GitHub pour goos/goarch.
func CheckYtDlpUpdate(ctx context.Context, localVer, goos, goarch string) (*UpdateCheck, error) {
	latest, err := LatestRelease(ctx, goos, goarch)
	if err != nil {
		return nil, fmt.Errorf("impossible de récupérer la release GitHub : %w", err)
	}
	return &UpdateCheck{
		CurrentVersion: localVer,
		Latest:         latest,
		IsUpToDate:     sameVersion(localVer, latest.Tag),
	}, nil
}

// DownloadLink : l'exécutable de la plateforme, sinon la page de la release.
func (u UpdateCheck) DownloadLink() string {
	if u.Latest.Binary != "" {
		return u.Latest.Binary
	}
	return u.Latest.PageURL
}

// sameVersion compare deux versions en ignorant espaces et préfixe "v".
func sameVersion(a, b string) bool {
	norm := func(s string) string {
		return strings.TrimPrefix(strings.TrimSpace(s), "v")
	}
	return norm(a) != "" && norm(a) == norm(b)
}
