package report

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickprogramme/gifcut/pkg/model"
)

// Filename : nom du rapport écrit à côté des GIFs.
const Filename = "report.md"

// Row est une ligne du tableau des clips.
type Row struct {
	Index  int
	Start  float64
	File   string // basename du gif
	Status model.ClipStatus
	Err    string
}

// Data contient les données brutes du rapport.
type Data struct {
	Title      string
	RunID      string
	Date       string // formaté YYYY-MM-DD HH:MM
	URL        string
	VideoPath  string
	Duration   float64
	ClipLength float64
	FPS        int
	Width      int
	Saved      int
	Failed     int
	Clips      []Row
}

// Settings : paramètres d'encodage reportés tels quels.
type Settings struct {
	FPS   int
	Width int
}

// NewData construit Data à partir du résultat de la segmentation.
func NewData(runID, url string, src model.SourceVideo, rep *model.SegmentReport, s Settings, now time.Time) Data {
	base := filepath.Base(src.Path)
	d := Data{
		Title:     strings.TrimSuffix(base, filepath.Ext(base)),
		RunID:     runID,
		Date:      now.Format("2006-01-02 15:04"),
		URL:       url,
		VideoPath: src.Path,
		Duration:  src.Duration,
		FPS:       s.FPS,
		Width:     s.Width,
	}
	if rep == nil {
		return d
	}

	d.ClipLength = rep.Plan.ClipLength
	d.Saved = rep.Saved()
	d.Failed = rep.Failed()
	d.Clips = make([]Row, 0, len(rep.Results))
	for _, res := range rep.Results {
		row := Row{
			Index:  res.Clip.Index,
			Start:  res.Clip.Start,
			File:   filepath.Base(res.Clip.Output),
			Status: res.Status,
		}
		if res.Err != nil {
			row.Err = res.Err.Error()
		}
		d.Clips = append(d.Clips, row)
	}
	return d
}
