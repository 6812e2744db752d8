// Package fetch fournit des utilitaires légers et testables pour télécharger
// des ressources HTTP (JSON de l'API GitHub).
package fetch

import (
	"errors"
	"time"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultMaxBytes  = 10_000_000
	DefaultUserAgent = "gifcut/1.0"
)

// Erreurs exportées
var (
	ErrStatus   = errors.New("unexpected HTTP status")
	ErrTooLarge = errors.New("response body too large")
)
