package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/patrickprogramme/gifcut/pkg/model"
)

func sampleReport() *model.SegmentReport {
	plan := model.ClipPlan{Duration: 7, ClipLength: 3, OutputDir: "out"}
	for i := 0; i < 3; i++ {
		plan.Clips = append(plan.Clips, model.Clip{Index: i + 1, Start: float64(i) * 3, Length: 3, Output: model.ClipPath("out", i+1)})
	}
	return &model.SegmentReport{
		Plan: plan,
		Results: []model.ClipResult{
			{Clip: plan.Clips[0], Status: model.ClipSaved},
			{Clip: plan.Clips[1], Status: model.ClipFailed, Err: errors.New("exit 1 | boom")},
			{Clip: plan.Clips[2], Status: model.ClipSaved},
		},
	}
}

func TestNewData(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	d := NewData("run-1", "https://example.com/v", model.SourceVideo{Path: "/dl/My Video [abc].mp4", Duration: 7}, sampleReport(), Settings{FPS: 15, Width: 480}, now)

	if d.Title != "My Video [abc]" {
		t.Errorf("Title = %q", d.Title)
	}
	if d.Date != "2026-03-01 10:30" {
		t.Errorf("Date = %q", d.Date)
	}
	if d.Saved != 2 || d.Failed != 1 || len(d.Clips) != 3 {
		t.Errorf("saved=%d failed=%d clips=%d", d.Saved, d.Failed, len(d.Clips))
	}
	if d.Clips[1].File != "output_2.gif" || d.Clips[1].Err == "" {
		t.Errorf("row 2 = %+v", d.Clips[1])
	}
}

func TestTimestamp(t *testing.T) {
	tests := map[float64]string{
		0:      "00:00",
		3:      "00:03",
		75.5:   "01:15.5",
		59.96:  "01:00",
		3725:   "1:02:05",
		-1:     "00:00",
		1.25e1: "00:12.5",
	}
	for in, want := range tests {
		if got := timestamp(in); got != want {
			t.Errorf("timestamp(%v) = %q; want %q", in, got, want)
		}
	}
}

func TestStatusEscapesPipes(t *testing.T) {
	got := status(Row{Status: model.ClipFailed, Err: "a | b\nc"})
	if strings.ContainsAny(got, "|\n") {
		t.Errorf("status = %q", got)
	}
}

func TestRenderEmbedded(t *testing.T) {
	r, err := DefaultRenderer(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("DefaultRenderer: %v", err)
	}
	d := NewData("run-1", "https://example.com/v", model.SourceVideo{Path: "v.mp4", Duration: 7}, sampleReport(), Settings{FPS: 15, Width: 480}, time.Now())
	out, err := r.Render(TemplateName, d)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := string(out)
	for _, want := range []string{"run-1", "output_1.gif", "output_3.gif", "| 2 | 00:03 |", "15 fps"} {
		if !strings.Contains(s, want) {
			t.Errorf("rendered report missing %q:\n%s", want, s)
		}
	}
}

func TestRenderFromCustomFS(t *testing.T) {
	fsys := fstest.MapFS{
		TemplateName: {Data: []byte(`{{ .Title }}:{{ .Saved }}/{{ len .Clips }}`)},
	}
	r, err := NewRendererFromFS(fsys, []string{TemplateName})
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.Render(TemplateName, NewData("", "", model.SourceVideo{Path: "clip.webm"}, sampleReport(), Settings{}, time.Now()))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(out) != "clip:2/3" {
		t.Errorf("out = %q", out)
	}
}

func TestRenderParseErrorIsSticky(t *testing.T) {
	fsys := fstest.MapFS{TemplateName: {Data: []byte(`{{ .Title `)}}
	r, _ := NewRendererFromFS(fsys, []string{TemplateName})
	if err := r.ParseNow(); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := r.Render(TemplateName, Data{}); err == nil {
		t.Fatal("expected memorized parse error")
	}
}

func TestWriteOverwrites(t *testing.T) {
	dir := t.TempDir()
	fsys := fstest.MapFS{TemplateName: {Data: []byte(`{{ .RunID }}`)}}
	r, _ := NewRendererFromFS(fsys, []string{TemplateName})

	for _, id := range []string{"first", "second"} {
		if _, err := r.Write(dir, Data{RunID: id}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	got, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("report = %q; want second", got)
	}
}

func TestNewRendererFromFSRejectsEmpty(t *testing.T) {
	if _, err := NewRendererFromFS(nil, []string{"x"}); err == nil {
		t.Error("nil fsys accepted")
	}
	if _, err := NewRendererFromFS(fstest.MapFS{}, nil); err == nil {
		t.Error("no patterns accepted")
	}
}
