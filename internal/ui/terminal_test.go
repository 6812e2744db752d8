package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func noClipboard() (string, error) { return "", errors.New("no clipboard") }

func TestCleanInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  my folder  ", want: "my folder"},
		{in: `"C:\Users\me\gifs"`, want: `C:\Users\me\gifs`},
		{in: `'/tmp/out dir'`, want: "/tmp/out dir"},
		{in: `"unbalanced`, want: `"unbalanced`},
		{in: `""`, want: ""},
		{in: `"'nested'"`, want: `'nested'`},
		{in: "", want: ""},
	}
	for _, tc := range tests {
		if got := CleanInput(tc.in); got != tc.want {
			t.Errorf("CleanInput(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestPromptWithTimeoutReturnsInput(t *testing.T) {
	var out bytes.Buffer
	term := newTerminal(strings.NewReader("  \"my gifs\"  \n"), &out, io.Discard)

	got := term.PromptWithTimeout(context.Background(), "Dossier ?", time.Second, "default")
	if got != "my gifs" {
		t.Fatalf("got %q; want %q", got, "my gifs")
	}
	if !strings.Contains(out.String(), "attente 1 secondes") {
		t.Errorf("prompt not printed: %q", out.String())
	}
}

func TestPromptWithTimeoutReturnsDefaultOnTimeout(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	term := newTerminal(pr, io.Discard, io.Discard)

	const def = `  C:\gifs "quoted"  `
	start := time.Now()
	got := term.PromptWithTimeout(context.Background(), "Dossier ?", 50*time.Millisecond, def)
	if got != def {
		t.Fatalf("got %q; want default %q unmodified", got, def)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("returned after %v, before the deadline", elapsed)
	}
}

func TestPromptWithTimeoutEmptyLineUsesDefault(t *testing.T) {
	term := newTerminal(strings.NewReader("\n"), io.Discard, io.Discard)
	if got := term.PromptWithTimeout(context.Background(), "?", time.Second, "def"); got != "def" {
		t.Fatalf("got %q; want def", got)
	}
}

func TestPromptWithTimeoutEOFUsesDefaultImmediately(t *testing.T) {
	term := newTerminal(strings.NewReader(""), io.Discard, io.Discard)
	start := time.Now()
	if got := term.PromptWithTimeout(context.Background(), "?", 5*time.Second, "def"); got != "def" {
		t.Fatalf("got %q; want def", got)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("EOF should not wait for the deadline")
	}
}

func TestLateLineIsDiscardedBeforeNextPrompt(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	term := newTerminal(pr, io.Discard, io.Discard)

	if got := term.PromptWithTimeout(context.Background(), "?", 20*time.Millisecond, "first"); got != "first" {
		t.Fatalf("got %q; want first", got)
	}

	// ligne tapée après l'échéance : reste en attente dans le lecteur
	go func() { _, _ = pw.Write([]byte("late\n")) }()
	time.Sleep(50 * time.Millisecond)

	if got := term.PromptWithTimeout(context.Background(), "?", 20*time.Millisecond, "second"); got != "second" {
		t.Fatalf("got %q; want second (late line must not leak)", got)
	}
}

func TestGetVideoURL(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		clip      func() (string, error)
		useClip   bool
		want      string
		wantEmpty bool
	}{
		{name: "typed", input: "  https://example.com/v/1  \n", clip: noClipboard, useClip: true, want: "https://example.com/v/1"},
		{name: "empty aborts", input: "\n", clip: noClipboard, useClip: true, wantEmpty: true},
		{name: "eof aborts", input: "", clip: noClipboard, useClip: true, wantEmpty: true},
		{
			name:    "clipboard url",
			input:   "",
			clip:    func() (string, error) { return " https://youtu.be/abc \n", nil },
			useClip: true,
			want:    "https://youtu.be/abc",
		},
		{
			name:    "clipboard not a url",
			input:   "https://example.com/x\n",
			clip:    func() (string, error) { return "hello", nil },
			useClip: true,
			want:    "https://example.com/x",
		},
		{
			name:      "clipboard disabled",
			input:     "\n",
			clip:      func() (string, error) { return "https://youtu.be/abc", nil },
			useClip:   false,
			wantEmpty: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			term := newTerminal(strings.NewReader(tc.input), io.Discard, io.Discard)
			term.readClipboard = tc.clip

			got, err := term.GetVideoURL(context.Background(), tc.useClip)
			if tc.wantEmpty {
				if !errors.Is(err, ErrEmptyInput) {
					t.Fatalf("err = %v; want ErrEmptyInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetVideoURL: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q; want %q", got, tc.want)
			}
		})
	}
}

func TestGetVideoURLCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	term := newTerminal(pr, io.Discard, io.Discard)
	term.readClipboard = noClipboard

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := term.GetVideoURL(ctx, false); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v; want context.Canceled", err)
	}
}

func TestIsHTTPURL(t *testing.T) {
	for in, want := range map[string]bool{
		"https://www.youtube.com/watch?v=x": true,
		"http://example.com":                true,
		"ftp://example.com":                 false,
		"example.com/video":                 false,
		"":                                  false,
	} {
		if got := IsHTTPURL(in); got != want {
			t.Errorf("IsHTTPURL(%q) = %v; want %v", in, got, want)
		}
	}
}
