package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/patrickprogramme/gifcut/internal/config"
	"github.com/patrickprogramme/gifcut/internal/media"
	"github.com/patrickprogramme/gifcut/internal/report"
	"github.com/patrickprogramme/gifcut/internal/ui"
	"github.com/patrickprogramme/gifcut/pkg/model"
	"github.com/rs/zerolog"
)

type fakeUI struct {
	mu        sync.Mutex
	url       string
	urlErr    error
	promptAns string // "" => retourne def
	prompts   []string
	infos     []string
	errs      []string
	waited    bool
}

func (f *fakeUI) GetVideoURL(ctx context.Context, useClipboard bool) (string, error) {
	return f.url, f.urlErr
}

func (f *fakeUI) PromptWithTimeout(ctx context.Context, message string, timeout time.Duration, def string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, message)
	if f.promptAns == "" {
		return def
	}
	return f.promptAns
}

func (f *fakeUI) WaitForExit(ctx context.Context) error {
	f.waited = true
	return nil
}

func (f *fakeUI) PrintInfo(ctx context.Context, s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infos = append(f.infos, s)
}

func (f *fakeUI) PrintError(ctx context.Context, s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, s)
}

func (f *fakeUI) output() string {
	return strings.Join(f.infos, "\n") + "\n" + strings.Join(f.errs, "\n")
}

type fakeFetcher struct {
	path  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.calls++
	return f.path, f.err
}

type fakeProber struct {
	d   float64
	err error
}

func (f *fakeProber) Duration(ctx context.Context, path string) (float64, error) {
	return f.d, f.err
}

// fakeSegmenter planifie réellement et simule l'encodage ; failIndex > 0 fait échouer ce clip.
type fakeSegmenter struct {
	clipLength float64
	failIndex  int
	calls      int
	gotDir     string
}

func (f *fakeSegmenter) Segment(ctx context.Context, src model.SourceVideo, outputDir string, hooks media.Hooks) (*model.SegmentReport, error) {
	f.calls++
	f.gotDir = outputDir
	plan, err := media.PlanClips(src.Duration, f.clipLength, outputDir)
	if err != nil {
		return nil, err
	}
	entries, statErr := os.ReadDir(outputDir)
	isNew := os.IsNotExist(statErr)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}
	if hooks.OnDir != nil {
		hooks.OnDir(outputDir, isNew, len(entries) > 0)
	}
	if hooks.OnPlan != nil {
		hooks.OnPlan(plan)
	}
	rep := &model.SegmentReport{Plan: plan, DirCreated: isNew}
	var failed []*model.ClipError
	for _, c := range plan.Clips {
		res := model.ClipResult{Clip: c, Status: model.ClipSaved}
		if c.Index == f.failIndex {
			ce := &model.ClipError{Clip: c, Err: errors.New("exit status 1")}
			res.Status, res.Err = model.ClipFailed, ce
			failed = append(failed, ce)
		} else if err := os.WriteFile(c.Output, []byte("GIF89a"), 0o644); err != nil {
			return rep, err
		}
		rep.Results = append(rep.Results, res)
		if hooks.OnClip != nil {
			hooks.OnClip(res)
		}
	}
	if len(failed) > 0 {
		return rep, &model.SegmentError{Failed: failed, Planned: plan.Count()}
	}
	return rep, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.OutputBaseDir = filepath.Join(t.TempDir(), "gifs")
	cfg.DownloadDir = filepath.Join(t.TempDir(), "downloads")
	cfg.URLFromClipboard = false
	cfg.WriteReport = false
	return cfg
}

func newTestApp(cfg *config.Config, u *fakeUI, flags *CLIFlags, f *fakeFetcher, p *fakeProber, s *fakeSegmenter) *App {
	a := New(cfg, u, flags, nil, zerolog.Nop())
	a.fetcher = f
	a.prober = p
	a.segmenter = s
	a.writeClip = func(string) error { return nil }
	return a
}

func TestRunEmptyURLAbortsEarly(t *testing.T) {
	cfg := testConfig(t)
	u := &fakeUI{urlErr: ui.ErrEmptyInput}
	f := &fakeFetcher{}
	s := &fakeSegmenter{clipLength: 3}
	a := newTestApp(cfg, u, nil, f, &fakeProber{d: 7}, s)

	err := a.Run(context.Background())
	if !errors.Is(err, ErrNoURL) {
		t.Fatalf("err = %v; want ErrNoURL", err)
	}
	if f.calls != 0 || s.calls != 0 {
		t.Errorf("fetch calls=%d segment calls=%d; want 0", f.calls, s.calls)
	}
	if len(u.prompts) != 0 {
		t.Errorf("output prompt should not be shown")
	}
	if _, statErr := os.Stat(cfg.OutputBaseDir); !os.IsNotExist(statErr) {
		t.Errorf("output base dir should not exist")
	}
}

func TestRunFetchFailureStops(t *testing.T) {
	cfg := testConfig(t)
	u := &fakeUI{url: "https://example.com/v"}
	fe := &model.FetchError{URL: "https://example.com/v", Reason: "Unsupported URL"}
	s := &fakeSegmenter{clipLength: 3}
	a := newTestApp(cfg, u, nil, &fakeFetcher{err: fe}, &fakeProber{d: 7}, s)

	err := a.Run(context.Background())
	var got *model.FetchError
	if !errors.As(err, &got) {
		t.Fatalf("err = %v; want *model.FetchError", err)
	}
	if s.calls != 0 || len(u.prompts) != 0 {
		t.Errorf("nothing should run after a failed fetch")
	}
}

func TestRunProbeFailureSkipsSegmentation(t *testing.T) {
	cfg := testConfig(t)
	u := &fakeUI{url: "https://example.com/v"}
	pe := &model.ProbeError{Path: "v.mp4", Err: model.ErrInvalidDuration}
	s := &fakeSegmenter{clipLength: 3}
	a := newTestApp(cfg, u, nil, &fakeFetcher{path: "v.mp4"}, &fakeProber{err: pe}, s)

	err := a.Run(context.Background())
	if !errors.Is(err, model.ErrInvalidDuration) {
		t.Fatalf("err = %v; want ErrInvalidDuration", err)
	}
	if s.calls != 0 {
		t.Errorf("segmenter called %d times; want 0", s.calls)
	}
}

func TestRunHappyPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.WriteReport = true
	cfg.CopyOutputDir = true
	cfg.WaitForExit = true

	u := &fakeUI{url: "https://example.com/v"}
	s := &fakeSegmenter{clipLength: 3}
	video := filepath.Join(cfg.DownloadDir, "My Video [abc].mp4")
	a := newTestApp(cfg, u, nil, &fakeFetcher{path: video}, &fakeProber{d: 7}, s)

	fsys := fstest.MapFS{report.TemplateName: {Data: []byte(`{{ .Saved }}/{{ len .Clips }}`)}}
	r, err := report.NewRendererFromFS(fsys, []string{report.TemplateName})
	if err != nil {
		t.Fatal(err)
	}
	a.renderer = r

	var copied string
	a.writeClip = func(s string) error { copied = s; return nil }

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantDir := filepath.Join(cfg.OutputBaseDir, "My_Video_[abc]_gifs")
	if s.gotDir != wantDir {
		t.Errorf("output dir = %q; want %q", s.gotDir, wantDir)
	}
	for i := 1; i <= 3; i++ {
		if _, err := os.Stat(model.ClipPath(wantDir, i)); err != nil {
			t.Errorf("clip %d: %v", i, err)
		}
	}
	got, err := os.ReadFile(filepath.Join(wantDir, report.Filename))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if string(got) != "3/3" {
		t.Errorf("report = %q", got)
	}
	if abs, _ := filepath.Abs(wantDir); copied != abs {
		t.Errorf("copied = %q; want %q", copied, abs)
	}
	if !u.waited {
		t.Errorf("WaitForExit not called")
	}
	out := u.output()
	for _, want := range []string{"Dossier de sortie créé", "Durée de la vidéo : 7.00 secondes", "Création de 3 GIF(s) de 3 secondes", "Clips : 3/3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunOutputDirFromPrompt(t *testing.T) {
	cfg := testConfig(t)
	u := &fakeUI{url: "https://example.com/v", promptAns: "mes_gifs"}
	s := &fakeSegmenter{clipLength: 3}
	a := newTestApp(cfg, u, nil, &fakeFetcher{path: "v.mp4"}, &fakeProber{d: 3}, s)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := filepath.Join(cfg.OutputBaseDir, "mes_gifs"); s.gotDir != want {
		t.Errorf("output dir = %q; want %q", s.gotDir, want)
	}
}

func TestRunFlagsSkipPrompts(t *testing.T) {
	cfg := testConfig(t)
	out := filepath.Join(t.TempDir(), "abs")
	u := &fakeUI{urlErr: errors.New("should not be called")}
	f := &fakeFetcher{path: "v.mp4"}
	s := &fakeSegmenter{clipLength: 3}
	a := newTestApp(cfg, u, &CLIFlags{URL: " 'https://example.com/v' ", OutDir: out}, f, &fakeProber{d: 4}, s)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(u.prompts) != 0 {
		t.Errorf("prompt shown despite --out")
	}
	if s.gotDir != out {
		t.Errorf("output dir = %q; want %q", s.gotDir, out)
	}
	if f.calls != 1 {
		t.Errorf("fetch calls = %d", f.calls)
	}
}

func TestRunClipFailureReturnsSegmentError(t *testing.T) {
	cfg := testConfig(t)
	u := &fakeUI{url: "https://example.com/v"}
	s := &fakeSegmenter{clipLength: 3, failIndex: 2}
	a := newTestApp(cfg, u, nil, &fakeFetcher{path: "v.mp4"}, &fakeProber{d: 7}, s)

	err := a.Run(context.Background())
	var se *model.SegmentError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v; want *model.SegmentError", err)
	}
	out := u.output()
	if !strings.Contains(out, "Clips : 2/3 enregistrés, 1 en échec") {
		t.Errorf("summary missing:\n%s", out)
	}
	if !strings.Contains(out, "[2/3] échec") {
		t.Errorf("clip failure line missing:\n%s", out)
	}
}

func TestResolveOutputDir(t *testing.T) {
	base := filepath.Join("data", "gifs")
	def := filepath.Join(base, "v_gifs")
	abs := t.TempDir()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: def},
		{name: "default unchanged", input: def, want: def},
		{name: "name under base", input: "mine", want: filepath.Join(base, "mine")},
		{name: "quoted", input: `"mine"`, want: filepath.Join(base, "mine")},
		{name: "absolute", input: abs, want: abs},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveOutputDir(tc.input, base, def); got != tc.want {
				t.Errorf("ResolveOutputDir(%q) = %q; want %q", tc.input, got, tc.want)
			}
		})
	}
}
