package updater

import (
	"context"
	"fmt"

	"github.com/patrickprogramme/gifcut/pkg/github"
)

// genericAsset : zipapp yt-dlp, utilisable partout où python3 est présent.
const genericAsset = "yt-dlp"

// Release : dernière version de yt-dlp et lien de l'exécutable de la plateforme.
type Release struct {
	Tag     string
	PageURL string
	// Binary est vide si la release ne publie rien pour la plateforme
	Binary string
}

// AssetName retourne le nom de l'exécutable yt-dlp publié pour goos/goarch.
func AssetName(goos, goarch string) string {
	switch goos {
	case "windows":
		if goarch == "386" {
			return "yt-dlp_x86.exe"
		}
		return "yt-dlp.exe"
	case "darwin":
		return "yt-dlp_macos"
	case "linux":
		switch goarch {
		case "arm64":
			return "yt-dlp_linux_aarch64"
		case "arm":
			return "yt-dlp_linux_armv7l"
		}
		return "yt-dlp_linux"
	}
	return genericAsset
}

// LatestRelease récupère la dernière release de yt-dlp et choisit l'asset de goos/goarch.
// Hors Windows, le zipapp générique sert de repli.
func LatestRelease(ctx context.Context, goos, goarch string) (*Release, error) {
	raw, err := github.LatestRelease(ctx, "yt-dlp", "yt-dlp")
	if err != nil {
		return nil, err
	}
	if raw.TagName == "" {
		return nil, fmt.Errorf("release yt-dlp sans tag")
	}

	rel := &Release{Tag: raw.TagName, PageURL: raw.HTMLURL}
	if a, ok := raw.Asset(AssetName(goos, goarch)); ok {
		rel.Binary = a.URL
	} else if goos != "windows" {
		if a, ok := raw.Asset(genericAsset); ok {
			rel.Binary = a.URL
		}
	}
	return rel, nil
}
