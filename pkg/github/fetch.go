package github

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickprogramme/gifcut/internal/fetch"
)

const (
	apiBase        = "https://api.github.com"
	releaseTimeout = 15 * time.Second
	releaseMaxSize = 10_000_000
)

// Asset est un fichier attaché à une release.
type Asset struct {
	Name string `json:"name"`
	URL  string `json:"browser_download_url"`
}

// Release : champs de /releases/latest lus par l'updater.
type Release struct {
	TagName string  `json:"tag_name"`
	HTMLURL string  `json:"html_url"`
	Assets  []Asset `json:"assets"`
}

// Asset retourne l'asset nommé name, ou false.
func (r *Release) Asset(name string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}

// BaseURL est remplaçable dans les tests (httptest).
var BaseURL = apiBase

// LatestRelease interroge l'API GitHub pour la dernière release d'un dépôt.
func LatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", BaseURL, owner, repo)
	rel, err := fetch.JSON[Release](ctx, url, fetch.Limits{Timeout: releaseTimeout, MaxBytes: releaseMaxSize})
	if err != nil {
		return nil, fmt.Errorf("release GitHub %s/%s: %w", owner, repo, err)
	}
	return &rel, nil
}
