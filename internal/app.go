package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// TranscriptEnhancer turns raw transcripts into chapter HTML and remembers the results
type TranscriptEnhancer interface {
	Existing(name string) (string, bool, error)
	Enhance(ctx context.Context, video *Video, transcript, name string) (string, error)
}

// App holds the application state and dependencies
type App struct {
	lister        VideoLister
	transcriber   Transcriber
	enhancer      TranscriptEnhancer
	searcher      Searcher
	pages         *PageRenderer
	toc           *TOC
	promptManager *PromptManager
	errLog        *ErrorLog
	httpClient    *http.Client
	config        *Config
	ui            UIManager
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) *App {
	httpClient := &http.Client{Timeout: config.HTTPTimeout}
	ui := NewUIManager(config.Verbose, config.Quiet)
	promptManager := NewPromptManager(config.ConfigDir, config.Prompt)

	// a missing key only matters once a transcript has to be enhanced
	apiKey, _ := config.ResolveOpenAIKey()

	app := &App{
		transcriber:   NewTranscriptClient(httpClient, ""),
		enhancer:      NewEnhancer(config, promptManager, apiKey),
		pages:         NewPageRenderer(config.TemplateFile, ui),
		toc:           NewTOC(config.TOCFile, config.TOCHrefPrefix),
		promptManager: promptManager,
		httpClient:    httpClient,
		config:        config,
		ui:            ui,
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithLister sets a custom channel lister
func WithLister(lister VideoLister) AppOption {
	return func(a *App) {
		a.lister = lister
	}
}

// WithTranscriber sets a custom caption source
func WithTranscriber(transcriber Transcriber) AppOption {
	return func(a *App) {
		a.transcriber = transcriber
	}
}

// WithEnhancer sets a custom transcript enhancer
func WithEnhancer(enhancer TranscriptEnhancer) AppOption {
	return func(a *App) {
		a.enhancer = enhancer
	}
}

// WithSearcher sets a custom keyword search backend
func WithSearcher(searcher Searcher) AppOption {
	return func(a *App) {
		a.searcher = searcher
	}
}

// WithUI sets a custom UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
		a.pages = NewPageRenderer(a.config.TemplateFile, ui)
	}
}

// WithErrorLog sets the log receiving per-video errors
func WithErrorLog(log *ErrorLog) AppOption {
	return func(a *App) {
		a.errLog = log
	}
}

// SetPromptManager sets a new prompt manager
func (app *App) SetPromptManager(pm *PromptManager) {
	app.promptManager = pm
	if e, ok := app.enhancer.(*Enhancer); ok {
		e.prompts = pm
	}
}

// Config returns the loaded configuration
func (app *App) Config() *Config {
	return app.config
}

// UI returns the terminal output manager
func (app *App) UI() UIManager {
	return app.ui
}

// TOC returns the table of contents the pipeline maintains
func (app *App) TOC() *TOC {
	return app.toc
}

// Lister returns the configured channel lister, creating it on first use
func (app *App) Lister() (VideoLister, error) {
	if app.lister != nil {
		return app.lister, nil
	}
	lister, err := NewVideoLister(app.config.Lister, app.httpClient)
	if err != nil {
		return nil, err
	}
	app.lister = lister
	return lister, nil
}

// Searcher returns the YouTube search client, creating it on first use
func (app *App) Searcher(ctx context.Context) (Searcher, error) {
	if app.searcher != nil {
		return app.searcher, nil
	}
	key, err := app.config.ResolveGoogleKey()
	if err != nil {
		return nil, err
	}
	searcher, err := NewYouTubeSearcher(ctx, key)
	if err != nil {
		return nil, err
	}
	app.searcher = searcher
	return searcher, nil
}

// Search runs a keyword search on the configured channel
func (app *App) Search(ctx context.Context, query string, maxResults int64) ([]*Video, error) {
	searcher, err := app.Searcher(ctx)
	if err != nil {
		return nil, err
	}
	return searcher.Search(ctx, app.config.ChannelID, query, maxResults)
}

// GetTranscript returns the raw transcript text of a video, from the
// transcripts cache when present, fetching and caching it otherwise
func (app *App) GetTranscript(ctx context.Context, videoID string) (string, error) {
	if err := EnsureDirs(app.config.TranscriptsDir); err != nil {
		return "", fmt.Errorf("creating transcripts directory: %w", err)
	}

	existingTranscriptPath := filepath.Join(app.config.TranscriptsDir, videoID+".txt")

	// Check for cached transcript
	if FileExists(existingTranscriptPath) {
		app.ui.Verbose("Found existing transcript for %s\n", videoID)
		text, err := os.ReadFile(existingTranscriptPath)
		if err != nil {
			return "", fmt.Errorf("reading existing transcript: %w", err)
		}
		return string(text), nil
	}

	app.ui.Verbose("Fetching transcript for %s\n", videoID)
	transcript, err := app.transcriber.FetchTranscript(ctx, videoID, app.config.TranscriptLanguages)
	if err != nil {
		return "", fmt.Errorf("fetching transcript: %w", err)
	}

	text := transcript.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", videoID, ErrNoCaptions)
	}

	// Save transcript for future use
	if err := SaveTranscript(videoID, text, app.config.TranscriptsDir); err != nil {
		app.ui.Warnf("%v\n", err)
	}

	return text, nil
}

// EnhancedTranscript returns the stored enhanced transcript of video unless
// force is set, and asks the model for a new one otherwise
func (app *App) EnhancedTranscript(ctx context.Context, video *Video, text string, force bool) (string, error) {
	name := EnhancedTranscriptFilename(video.Title)
	if !force {
		existing, ok, err := app.enhancer.Existing(name)
		if err != nil {
			return "", err
		}
		if ok {
			app.ui.Verbose("Reusing enhanced transcript %s\n", name)
			return existing, nil
		}
	}

	app.ui.Verbose("Enhancing transcript of %s with %s\n", video.VideoID, app.config.Model)
	return app.enhancer.Enhance(ctx, video, text, name)
}
