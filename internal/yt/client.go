package yt

import "context"

// Fetcher télécharge la vidéo désignée par une URL et retourne le chemin local
// du fichier produit. Toute erreur est une *model.FetchError (ou ctx.Err()).
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Interface est l'abstraction du binaire yt-dlp utilisée par l'application.
// Elle facilite le test en autorisant une implémentation factice.
type Interface interface {
	Fetcher
	CheckBinary() error
	GetVersion(ctx context.Context) (string, error)
}
