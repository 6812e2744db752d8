package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/patrickprogramme/gifcut/pkg/github"
)

const releaseJSON = `{
  "tag_name": "2025.09.26",
  "html_url": "https://github.com/yt-dlp/yt-dlp/releases/tag/2025.09.26",
  "assets": [
    {"name": "yt-dlp", "browser_download_url": "https://example.com/yt-dlp"},
    {"name": "yt-dlp.exe", "browser_download_url": "https://example.com/yt-dlp.exe"},
    {"name": "yt-dlp_linux", "browser_download_url": "https://example.com/yt-dlp_linux"},
    {"name": "yt-dlp_macos", "browser_download_url": "https://example.com/yt-dlp_macos"}
  ]
}`

func withServer(t *testing.T, body string, status int) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/yt-dlp/yt-dlp/releases/latest" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	old := github.BaseURL
	github.BaseURL = srv.URL
	t.Cleanup(func() {
		github.BaseURL = old
		srv.Close()
	})
}

func TestCheckYtDlpUpdate(t *testing.T) {
	withServer(t, releaseJSON, http.StatusOK)

	tests := []struct {
		local string
		want  bool
	}{
		{local: "2025.09.26", want: true},
		{local: "v2025.09.26\n", want: true},
		{local: "2024.12.01", want: false},
		{local: "", want: false},
	}
	for _, tc := range tests {
		check, err := CheckYtDlpUpdate(context.Background(), tc.local, "linux", "amd64")
		if err != nil {
			t.Fatalf("CheckYtDlpUpdate: %v", err)
		}
		if check.IsUpToDate != tc.want {
			t.Errorf("IsUpToDate(%q) = %v; want %v", tc.local, check.IsUpToDate, tc.want)
		}
	}
}

func TestDownloadLinkPerPlatform(t *testing.T) {
	withServer(t, releaseJSON, http.StatusOK)

	tests := []struct {
		goos, goarch string
		want         string
	}{
		{"windows", "amd64", "https://example.com/yt-dlp.exe"},
		{"linux", "amd64", "https://example.com/yt-dlp_linux"},
		{"darwin", "arm64", "https://example.com/yt-dlp_macos"},
		// pas d'asset aarch64 publié : repli sur le zipapp
		{"linux", "arm64", "https://example.com/yt-dlp"},
		// pas d'asset x86 et pas de repli sous Windows : page de la release
		{"windows", "386", "https://github.com/yt-dlp/yt-dlp/releases/tag/2025.09.26"},
	}
	for _, tc := range tests {
		check, err := CheckYtDlpUpdate(context.Background(), "old", tc.goos, tc.goarch)
		if err != nil {
			t.Fatal(err)
		}
		if got := check.DownloadLink(); got != tc.want {
			t.Errorf("%s/%s link = %q; want %q", tc.goos, tc.goarch, got, tc.want)
		}
	}
}

// Une release sans asset Windows ne gêne pas la vérification sous Linux.
func TestMissingOtherPlatformAsset(t *testing.T) {
	withServer(t, `{"tag_name":"1","assets":[{"name":"yt-dlp_linux","browser_download_url":"x"}]}`, http.StatusOK)
	rel, err := LatestRelease(context.Background(), "linux", "amd64")
	if err != nil {
		t.Fatalf("LatestRelease: %v", err)
	}
	if rel.Binary != "x" {
		t.Errorf("Binary = %q; want x", rel.Binary)
	}
}

func TestReleaseWithoutTag(t *testing.T) {
	withServer(t, `{"assets":[]}`, http.StatusOK)
	if _, err := LatestRelease(context.Background(), "linux", "amd64"); err == nil {
		t.Fatal("expected error for a release without tag")
	}
}

func TestReleaseHTTPError(t *testing.T) {
	withServer(t, `{"message":"API rate limit exceeded"}`, http.StatusForbidden)
	if _, err := CheckYtDlpUpdate(context.Background(), "1", "linux", "amd64"); err == nil {
		t.Fatal("expected error on 403")
	}
}
