package yt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kkdai/youtube/v2"
	"github.com/patrickprogramme/gifcut/internal/fsutil"
	"github.com/patrickprogramme/gifcut/pkg/model"
	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Native télécharge les vidéos YouTube sans yt-dlp.
// Préférence : piste vidéo mp4 + piste audio m4a fusionnées par ffmpeg,
// sinon un flux mp4 muxé, sinon n'importe quel flux muxé.
type Native struct {
	DownloadDir string
	FFmpegPath  string // vide => pas de fusion, flux muxés uniquement

	client *youtube.Client
	logger zerolog.Logger
}

func NewNative(downloadDir, ffmpegPath string, logger zerolog.Logger) *Native {
	return &Native{
		DownloadDir: downloadDir,
		FFmpegPath:  ffmpegPath,
		client:      &youtube.Client{},
		logger:      logger.With().Str("component", "native").Logger(),
	}
}

// Fetch implémente Fetcher.
func (n *Native) Fetch(ctx context.Context, url string) (string, error) {
	if !IsYouTubeURL(url) {
		return "", &model.FetchError{URL: url, Reason: "le moteur natif ne gère que les URL YouTube"}
	}
	start := time.Now()

	video, err := n.client.GetVideoContext(ctx, url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &model.FetchError{URL: url, Reason: "métadonnées indisponibles", Err: err}
	}

	if _, err := fsutil.EnsureDir(n.DownloadDir); err != nil {
		return "", &model.FetchError{URL: url, Reason: "dossier de téléchargement", Err: err}
	}

	base := fsutil.SanitizeFilename(fmt.Sprintf("%s [%s]", video.Title, video.ID))
	plan := selectFormats(video.Formats, n.FFmpegPath != "")

	var path string
	switch {
	case plan.video != nil && plan.audio != nil:
		path = filepath.Join(n.DownloadDir, base+".mp4")
		err = n.downloadMerged(ctx, video, plan.video, plan.audio, path)
	case plan.muxed != nil:
		path = filepath.Join(n.DownloadDir, base+"."+extFromMime(plan.muxed.MimeType))
		err = n.downloadFormat(ctx, video, plan.muxed, path)
	default:
		return "", &model.FetchError{URL: url, Reason: "aucun format téléchargeable"}
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &model.FetchError{URL: url, Reason: "téléchargement", Err: err}
	}

	n.logger.Info().
		Str("id", video.ID).
		Str("path", path).
		Dur("elapsed", time.Since(start)).
		Msg("downloaded")
	return path, nil
}

type formatPlan struct {
	video *youtube.Format // piste vidéo seule
	audio *youtube.Format // piste audio seule
	muxed *youtube.Format
}

// selectFormats choisit les flux à télécharger. canMerge autorise vidéo+audio séparés.
func selectFormats(formats youtube.FormatList, canMerge bool) formatPlan {
	var plan formatPlan

	if canMerge {
		var videos, audios []youtube.Format
		for _, f := range formats {
			switch {
			case strings.HasPrefix(f.MimeType, "video/mp4") && f.AudioChannels == 0:
				videos = append(videos, f)
			case strings.HasPrefix(f.MimeType, "audio/mp4"):
				audios = append(audios, f)
			}
		}
		if len(videos) > 0 && len(audios) > 0 {
			sort.SliceStable(videos, func(i, j int) bool {
				if videos[i].Height != videos[j].Height {
					return videos[i].Height > videos[j].Height
				}
				return videos[i].Bitrate > videos[j].Bitrate
			})
			sort.SliceStable(audios, func(i, j int) bool { return audios[i].Bitrate > audios[j].Bitrate })
			plan.video = &videos[0]
			plan.audio = &audios[0]
			return plan
		}
	}

	var muxed []youtube.Format
	for _, f := range formats {
		if f.AudioChannels > 0 && strings.HasPrefix(f.MimeType, "video/") {
			muxed = append(muxed, f)
		}
	}
	if len(muxed) == 0 {
		return plan
	}
	sort.SliceStable(muxed, func(i, j int) bool {
		mi := strings.HasPrefix(muxed[i].MimeType, "video/mp4")
		mj := strings.HasPrefix(muxed[j].MimeType, "video/mp4")
		if mi != mj {
			return mi
		}
		return muxed[i].Height > muxed[j].Height
	})
	plan.muxed = &muxed[0]
	return plan
}

// extFromMime : "video/mp4; codecs=..." -> "mp4"
func extFromMime(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if i := strings.IndexByte(mime, '/'); i >= 0 {
		mime = mime[i+1:]
	}
	mime = strings.TrimSpace(mime)
	if mime == "" {
		return "mp4"
	}
	return mime
}

// downloadFormat écrit un flux dans un fichier temporaire puis le renomme en dest.
func (n *Native) downloadFormat(ctx context.Context, video *youtube.Video, f *youtube.Format, dest string) error {
	tmp := n.tempPath(extFromMime(f.MimeType))
	if err := n.streamTo(ctx, video, f, tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", dest, err)
	}
	return nil
}

// downloadMerged télécharge les deux pistes puis les fusionne sans réencodage.
func (n *Native) downloadMerged(ctx context.Context, video *youtube.Video, vf, af *youtube.Format, dest string) error {
	vtmp := n.tempPath("video.mp4")
	atmp := n.tempPath("audio.m4a")
	defer os.Remove(vtmp)
	defer os.Remove(atmp)

	if err := n.streamTo(ctx, video, vf, vtmp); err != nil {
		return fmt.Errorf("piste vidéo: %w", err)
	}
	if err := n.streamTo(ctx, video, af, atmp); err != nil {
		return fmt.Errorf("piste audio: %w", err)
	}

	args := MergeArgs(vtmp, atmp, dest)
	n.logger.Debug().Str("cmd", n.FFmpegPath).Strs("args", args).Msg("executing")
	out, err := exec.CommandContext(ctx, n.FFmpegPath, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("fusion ffmpeg: %w, output: %s", err, strings.TrimSpace(string(out)))
	}
	if !fsutil.FileExists(dest) {
		return errors.New("fusion ffmpeg: fichier absent")
	}
	return nil
}

// MergeArgs : copie des deux flux dans un mp4, sans réencodage.
func MergeArgs(videoPath, audioPath, dest string) []string {
	streams := []*ffmpeg.Stream{ffmpeg.Input(videoPath), ffmpeg.Input(audioPath)}
	out := ffmpeg.Output(streams, dest, ffmpeg.KwArgs{"c": "copy"}).OverWriteOutput()
	return append([]string{"-hide_banner", "-loglevel", "error"}, out.GetArgs()...)
}

func (n *Native) streamTo(ctx context.Context, video *youtube.Video, f *youtube.Format, dest string) error {
	stream, size, err := n.client.GetStreamContext(ctx, video, f)
	if err != nil {
		return err
	}
	defer stream.Close()

	file, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fsutil.FilePerm)
	if err != nil {
		return err
	}
	written, err := io.Copy(file, stream)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return err
	}
	n.logger.Debug().Int("itag", f.ItagNo).Int64("size", size).Int64("written", written).Msg("stream saved")
	return nil
}

func (n *Native) tempPath(suffix string) string {
	return filepath.Join(n.DownloadDir, "."+uuid.NewString()+"."+suffix)
}
