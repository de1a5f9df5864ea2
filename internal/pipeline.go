package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// BuildOptions controls one batch run over the channel
type BuildOptions struct {
	Limit  int  // stop after this many videos, 0 for all
	DryRun bool // report what would happen without writing pages
	Force  bool // enhance again even when a stored transcript exists
}

// BuildSummary counts the outcome of a batch run
type BuildSummary struct {
	Processed int
	Skipped   int
	Failed    int
	Planned   int
	Malformed int
	Videos    []*Video
}

func (s *BuildSummary) record(status ProcessStatus) {
	switch status {
	case StatusProcessed:
		s.Processed++
	case StatusSkipped:
		s.Skipped++
	case StatusPlanned:
		s.Planned++
	default:
		s.Failed++
	}
}

func (app *App) logError(msg string, args ...any) {
	if app.errLog != nil {
		app.errLog.Error(msg, args...)
	}
}

func (app *App) logInfo(msg string, args ...any) {
	if app.errLog != nil {
		app.errLog.Info(msg, args...)
	}
}

// ProcessVideo turns one video into a help page and lists it in the TOC.
// Videos already listed are skipped. The returned error only describes a
// failed video; callers keep going with the next one.
func (app *App) ProcessVideo(ctx context.Context, video *Video, opts BuildOptions) (ProcessStatus, error) {
	video.HTMLFilename = PageFilename(video.Title)

	listed, err := app.toc.IsListed(video.HTMLFilename)
	if err != nil {
		return StatusFailed, err
	}
	if listed {
		app.ui.Verbose("%s already in %s\n", video.HTMLFilename, filepath.Base(app.toc.Path()))
		app.logInfo("video already listed", "video_id", video.VideoID, "html_filename", video.HTMLFilename)
		return StatusSkipped, nil
	}

	if opts.DryRun {
		app.ui.Printf("Would build %s (%s)\n", video.HTMLFilename, video.VideoID)
		return StatusPlanned, nil
	}

	transcript, err := app.GetTranscript(ctx, video.VideoID)
	if err != nil {
		return StatusFailed, err
	}
	text := RemoveMusicMarkers(transcript)

	enhanced, err := app.EnhancedTranscript(ctx, video, text, opts.Force)
	if err != nil {
		return StatusFailed, fmt.Errorf("enhancing transcript: %w", err)
	}

	page, err := app.pages.Render(video, enhanced)
	if err != nil {
		return StatusFailed, err
	}

	if err := EnsureDirs(app.config.HTMLDir); err != nil {
		return StatusFailed, fmt.Errorf("creating html directory: %w", err)
	}
	pagePath := filepath.Join(app.config.HTMLDir, video.HTMLFilename)
	if err := os.WriteFile(pagePath, []byte(page), 0644); err != nil {
		return StatusFailed, fmt.Errorf("saving page: %w", err)
	}

	if _, err := app.toc.Add(video.HTMLFilename); err != nil {
		return StatusFailed, fmt.Errorf("updating TOC: %w", err)
	}

	app.ui.Verbose("Built %s\n", pagePath)
	return StatusProcessed, nil
}

// BuildHelpPages lists the channel and processes every video in order. Every
// video that could be constructed ends up in the video list file, whatever
// its outcome.
func (app *App) BuildHelpPages(ctx context.Context, opts BuildOptions) (*BuildSummary, error) {
	if !FileExists(app.toc.Path()) {
		return nil, fmt.Errorf("TOC file not found: %s", app.toc.Path())
	}

	lister, err := app.Lister()
	if err != nil {
		return nil, err
	}

	listings, listErr := lister.ListVideos(ctx, app.config.ChannelID, opts.Limit)
	if listErr != nil {
		if len(listings) == 0 {
			return nil, fmt.Errorf("listing channel videos: %w", listErr)
		}
		app.ui.Warnf("channel listing stopped early: %v\n", listErr)
		app.logError("channel listing stopped early", "error", listErr)
	}

	app.ui.Printf("Found %d videos on channel %s\n", len(listings), app.config.ChannelID)

	summary := &BuildSummary{}
	bar := app.ui.NewProgressBar(len(listings), "Building help pages")

	for i, listing := range listings {
		bar.Set(i)
		if err := ctx.Err(); err != nil {
			bar.Finish()
			return summary, err
		}

		if listing.Err != nil {
			summary.Malformed++
			app.ui.Verbose("Skipping listing entry %d: %v\n", i+1, listing.Err)
			app.logError("malformed listing entry", "index", i, "error", listing.Err)
			continue
		}

		video := listing.Video
		bar.Describe(video.Title)
		status, err := app.ProcessVideo(ctx, video, opts)
		if err != nil {
			app.ui.Verbose("Failed %s: %v\n", video.VideoID, err)
			app.logError("An error occurred", "video_id", video.VideoID, "title", video.Title, "error", err)
		}
		summary.record(status)
		summary.Videos = append(summary.Videos, video)
	}
	bar.Set(len(listings))
	bar.Finish()

	if !opts.DryRun {
		if err := WriteVideoList(app.config.VideoListFile, summary.Videos); err != nil {
			return summary, err
		}
	}

	if opts.DryRun {
		app.ui.Printf("Dry run complete. %d would be built, %d skipped", summary.Planned, summary.Skipped)
	} else {
		app.ui.Printf("Processing complete. %d processed, %d skipped, %d failed", summary.Processed, summary.Skipped, summary.Failed)
	}
	if summary.Malformed > 0 {
		app.ui.Printf(", %d malformed listing entries", summary.Malformed)
	}
	app.ui.Println()

	if summary.Failed > 0 && app.errLog != nil {
		app.ui.Printf("See %s for details\n", app.config.ErrorLog)
	}
	return summary, nil
}

// WriteVideoList saves videos as an indented JSON array. Non-ASCII text and
// HTML characters are written as is.
func WriteVideoList(path string, videos []*Video) error {
	if videos == nil {
		videos = []*Video{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(videos); err != nil {
		return fmt.Errorf("encoding video list: %w", err)
	}

	if err := EnsureDirs(filepath.Dir(path)); err != nil {
		return fmt.Errorf("creating video list directory: %w", err)
	}
	if err := os.WriteFile(path, bytes.TrimRight(buf.Bytes(), "\n"), 0644); err != nil {
		return fmt.Errorf("saving video list: %w", err)
	}
	return nil
}

// ReadVideoList loads a video list written by WriteVideoList
func ReadVideoList(path string) ([]*Video, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading video list: %w", err)
	}
	var videos []*Video
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, fmt.Errorf("parsing video list: %w", err)
	}
	return videos, nil
}
