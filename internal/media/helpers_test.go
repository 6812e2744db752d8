package media

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeScript écrit un faux outil (script shell) exécutable dans t.TempDir().
func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("scripts shell non supportés sous Windows")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

// fakeFFmpeg crée le fichier .gif passé en argument, sauf si -ss vaut failStart.
func fakeFFmpeg(t *testing.T, failStart string) string {
	t.Helper()
	body := `
prev=""
out=""
for a in "$@"; do
  if [ "$prev" = "-ss" ] && [ "$a" = "` + failStart + `" ]; then
    echo "boom at $a" >&2
    exit 1
  fi
  case "$a" in
    *.gif) out="$a" ;;
  esac
  prev="$a"
done
[ -n "$out" ] && : > "$out"
exit 0
`
	return writeScript(t, "ffmpeg", body)
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("touch: %v", err)
	}
}
