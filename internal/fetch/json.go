package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Limits borne une requête ; les valeurs <= 0 prennent les défauts du paquet.
type Limits struct {
	Timeout  time.Duration
	MaxBytes int64
}

func (l Limits) withDefaults() Limits {
	if l.Timeout <= 0 {
		l.Timeout = DefaultTimeout
	}
	if l.MaxBytes <= 0 {
		l.MaxBytes = DefaultMaxBytes
	}
	return l
}

// JSON télécharge rawURL et décode la réponse dans un T.
// Un corps de plus de MaxBytes octets donne ErrTooLarge, un statut hors 2xx ErrStatus.
func JSON[T any](ctx context.Context, rawURL string, lim Limits) (T, error) {
	var v T
	body, err := get(ctx, rawURL, "application/json", lim.withDefaults())
	if err != nil {
		return v, fmt.Errorf("fetch json: %w", err)
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("fetch json: decode: %w", err)
	}
	return v, nil
}

func get(ctx context.Context, rawURL, accept string, lim Limits) ([]byte, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("url invalide %q: %w", rawURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, lim.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", accept)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	if resp.ContentLength > lim.MaxBytes {
		return nil, fmt.Errorf("%w: content-length %d > %d", ErrTooLarge, resp.ContentLength, lim.MaxBytes)
	}

	// un octet de plus que la limite suffit à détecter le dépassement
	body, err := io.ReadAll(io.LimitReader(resp.Body, lim.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("lecture du corps: %w", err)
	}
	if int64(len(body)) > lim.MaxBytes {
		return nil, fmt.Errorf("%w: plus de %d octets", ErrTooLarge, lim.MaxBytes)
	}
	return body, nil
}
