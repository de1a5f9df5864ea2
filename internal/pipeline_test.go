package internal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	listings []Listing
	err      error
}

func (f *fakeLister) ListVideos(ctx context.Context, channelID string, limit int) ([]Listing, error) {
	valid := 0
	for i, l := range f.listings {
		if l.Err == nil {
			valid++
		}
		if limit > 0 && valid >= limit {
			return f.listings[:i+1], f.err
		}
	}
	return f.listings, f.err
}

type fakeTranscriber struct {
	transcripts map[string]Transcript
	calls       int
}

func (f *fakeTranscriber) FetchTranscript(ctx context.Context, videoID string, langs []string) (Transcript, error) {
	f.calls++
	t, ok := f.transcripts[videoID]
	if !ok {
		return nil, ErrNoCaptions
	}
	return t, nil
}

type fakeEnhancer struct {
	stored   map[string]string
	enhanced []string
	err      error
}

func (f *fakeEnhancer) Existing(name string) (string, bool, error) {
	content, ok := f.stored[name]
	return content, ok, nil
}

func (f *fakeEnhancer) Enhance(ctx context.Context, video *Video, transcript, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.enhanced = append(f.enhanced, name)
	return "<p>enh:" + transcript + "</p>", nil
}

const pipelineTemplate = `<h1>###video_name###</h1><iframe src="###video_url###"></iframe><img src="###thumbnail_url###"/><p>###video_description###</p>###enhanced_transcript###`

type pipelineFixture struct {
	app         *App
	config      *Config
	transcriber *fakeTranscriber
	enhancer    *fakeEnhancer
}

func newPipelineFixture(t *testing.T, listings []Listing) *pipelineFixture {
	t.Helper()
	config := testConfig(t)
	writeFile(t, config.TOCFile, `<?xml version="1.0" encoding="utf-8"?>
<toc version="1.0">
	<page href="../contents/deja_la.htm"/>
</toc>`)
	writeFile(t, config.TemplateFile, pipelineTemplate)

	errLog, err := OpenErrorLog(config.ErrorLog)
	require.NoError(t, err)
	t.Cleanup(func() { _ = errLog.Close() })

	transcriber := &fakeTranscriber{transcripts: map[string]Transcript{
		"vid00000001": {{Text: "[Musique]"}, {Text: "bonjour"}},
		"vid00000002": {{Text: "déjà"}},
	}}
	enhancer := &fakeEnhancer{stored: map[string]string{}}

	app := NewApp(config,
		WithLister(&fakeLister{listings: listings}),
		WithTranscriber(transcriber),
		WithEnhancer(enhancer),
		WithErrorLog(errLog),
	)
	return &pipelineFixture{app: app, config: config, transcriber: transcriber, enhancer: enhancer}
}

func sampleListings() []Listing {
	newVideo := NewVideo("vid00000001", "Créer une facture")
	newVideo.setThumbnail(Thumbnail{URL: "https://t/1.jpg", Width: 336, Height: 188})
	return []Listing{
		{Video: newVideo},
		{Err: ErrMalformedVideo},
		{Video: NewVideo("vid00000002", "Déjà là")},
		{Video: NewVideo("vid00000003", "Sans sous-titres")},
	}
}

func TestBuildHelpPages(t *testing.T) {
	f := newPipelineFixture(t, sampleListings())

	summary, err := f.app.BuildHelpPages(context.Background(), BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Malformed)
	require.Len(t, summary.Videos, 3)

	page, err := os.ReadFile(filepath.Join(f.config.HTMLDir, "creer_une_facture.htm"))
	require.NoError(t, err)
	assert.Equal(t, `<h1>Créer une facture</h1><iframe src="https://www.youtube.com/embed/vid00000001"></iframe><img src="https://t/1.jpg"/><p>No description available.</p><p>enh: bonjour</p>`, string(page))
	assert.Equal(t, []string{"creer_une_facture-transcript.txt"}, f.enhancer.enhanced)

	listed, err := f.app.TOC().IsListed("creer_une_facture.htm")
	require.NoError(t, err)
	assert.True(t, listed)
	listed, err = f.app.TOC().IsListed("sans_sous-titres.htm")
	require.NoError(t, err)
	assert.False(t, listed, "failed videos stay out of the TOC")

	cached, err := os.ReadFile(filepath.Join(f.config.TranscriptsDir, "vid00000001.txt"))
	require.NoError(t, err)
	assert.Equal(t, "[Musique] bonjour", string(cached), "the cache keeps the raw text")

	videos, err := ReadVideoList(f.config.VideoListFile)
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.Equal(t, "creer_une_facture.htm", videos[0].HTMLFilename)
	assert.Equal(t, "deja_la.htm", videos[1].HTMLFilename)
	assert.Equal(t, "sans_sous-titres.htm", videos[2].HTMLFilename)

	raw, err := os.ReadFile(f.config.VideoListFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `    {`+"\n"+`        "video_id": "vid00000001",`)
	assert.Contains(t, string(raw), `"title": "Créer une facture"`)

	logged, err := os.ReadFile(f.config.ErrorLog)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "vid00000003")
	assert.Contains(t, string(logged), "malformed listing entry")
	assert.Contains(t, string(logged), "video already listed")
}

func TestBuildHelpPagesSecondRunSkipsEverything(t *testing.T) {
	f := newPipelineFixture(t, sampleListings()[:1])

	_, err := f.app.BuildHelpPages(context.Background(), BuildOptions{})
	require.NoError(t, err)

	summary, err := f.app.BuildHelpPages(context.Background(), BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, f.transcriber.calls)
}

func TestProcessVideoReusesEnhancedTranscript(t *testing.T) {
	f := newPipelineFixture(t, nil)
	f.enhancer.stored["creer_une_facture-transcript.txt"] = "<p>stored</p>"

	video := NewVideo("vid00000001", "Créer une facture")
	status, err := f.app.ProcessVideo(context.Background(), video, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusProcessed, status)
	assert.Empty(t, f.enhancer.enhanced)

	page, err := os.ReadFile(filepath.Join(f.config.HTMLDir, "creer_une_facture.htm"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(page), "<p>stored</p>"))
}

func TestProcessVideoForceEnhances(t *testing.T) {
	f := newPipelineFixture(t, nil)
	f.enhancer.stored["creer_une_facture-transcript.txt"] = "<p>stored</p>"

	status, err := f.app.ProcessVideo(context.Background(), NewVideo("vid00000001", "Créer une facture"), BuildOptions{Force: true})
	require.NoError(t, err)
	assert.Equal(t, StatusProcessed, status)
	assert.Equal(t, []string{"creer_une_facture-transcript.txt"}, f.enhancer.enhanced)
}

func TestProcessVideoEnhanceError(t *testing.T) {
	f := newPipelineFixture(t, nil)
	f.enhancer.err = errors.New("rate limited")

	status, err := f.app.ProcessVideo(context.Background(), NewVideo("vid00000001", "Créer une facture"), BuildOptions{})
	require.Error(t, err)
	assert.Equal(t, StatusFailed, status)
	assert.Contains(t, err.Error(), "rate limited")
	assert.NoFileExists(t, filepath.Join(f.config.HTMLDir, "creer_une_facture.htm"))

	listed, err := f.app.TOC().IsListed("creer_une_facture.htm")
	require.NoError(t, err)
	assert.False(t, listed)
}

func TestBuildHelpPagesDryRun(t *testing.T) {
	f := newPipelineFixture(t, sampleListings())
	var out bytes.Buffer
	WithUI(NewUIManagerTo(&out, io.Discard, false, false))(f.app)

	summary, err := f.app.BuildHelpPages(context.Background(), BuildOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Planned)
	assert.Zero(t, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Contains(t, out.String(), "Would build creer_une_facture.htm (vid00000001)")
	assert.Contains(t, out.String(), "Dry run complete. 2 would be built, 1 skipped")
	assert.NotContains(t, out.String(), "processed")

	assert.Zero(t, f.transcriber.calls)
	assert.NoDirExists(t, f.config.HTMLDir)
	assert.NoFileExists(t, f.config.VideoListFile)
}

func TestBuildHelpPagesLimit(t *testing.T) {
	f := newPipelineFixture(t, sampleListings())

	summary, err := f.app.BuildHelpPages(context.Background(), BuildOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, summary.Videos, 1)
}

func TestBuildHelpPagesMissingTOC(t *testing.T) {
	f := newPipelineFixture(t, sampleListings())
	require.NoError(t, os.Remove(f.config.TOCFile))

	_, err := f.app.BuildHelpPages(context.Background(), BuildOptions{})
	assert.Error(t, err)
}

func TestBuildHelpPagesPartialListing(t *testing.T) {
	f := newPipelineFixture(t, nil)
	f.app.lister = &fakeLister{listings: sampleListings()[:1], err: errors.New("page 2 failed")}

	summary, err := f.app.BuildHelpPages(context.Background(), BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)

	f.app.lister = &fakeLister{err: errors.New("offline")}
	_, err = f.app.BuildHelpPages(context.Background(), BuildOptions{})
	assert.Error(t, err)
}

func TestWriteVideoListEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video_data.json")
	require.NoError(t, WriteVideoList(path, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestGetTranscriptUsesCache(t *testing.T) {
	f := newPipelineFixture(t, nil)
	writeFile(t, filepath.Join(f.config.TranscriptsDir, "cached00001.txt"), "déjà téléchargé")

	text, err := f.app.GetTranscript(context.Background(), "cached00001")
	require.NoError(t, err)
	assert.Equal(t, "déjà téléchargé", text)
	assert.Zero(t, f.transcriber.calls)

	_, err = f.app.GetTranscript(context.Background(), "missing0001")
	assert.True(t, errors.Is(err, ErrNoCaptions))
}
