package internal

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultWatchURL = "https://www.youtube.com/watch"

	// ytInitialPlayerResponseMarker marks the start of the player response JSON in watch page HTML.
	ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	maxWatchPageBytes = 6 << 20
	maxCaptionBytes   = 2 << 20
)

// ErrNoCaptions is returned when a video has no usable caption track
var ErrNoCaptions = errors.New("no captions available")

// Segment is one timed piece of a transcript
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is the ordered list of segments of one caption track
type Transcript []Segment

// Text joins the segment texts with single spaces
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t))
	for _, seg := range t {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

// Transcriber fetches the captions of a video
type Transcriber interface {
	FetchTranscript(ctx context.Context, videoID string, langs []string) (Transcript, error)
}

// TranscriptClient reads caption tracks advertised on the watch page
type TranscriptClient struct {
	httpClient *http.Client
	watchURL   string
}

// NewTranscriptClient creates a transcript client. watchURL defaults to YouTube.
func NewTranscriptClient(httpClient *http.Client, watchURL string) *TranscriptClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if watchURL == "" {
		watchURL = defaultWatchURL
	}
	return &TranscriptClient{httpClient: httpClient, watchURL: watchURL}
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type playerResponse struct {
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// FetchTranscript downloads the best caption track for langs, in order of preference
func (c *TranscriptClient) FetchTranscript(ctx context.Context, videoID string, langs []string) (Transcript, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID is required")
	}

	body, err := c.get(ctx, c.watchURL+"?v="+url.QueryEscape(videoID), maxWatchPageBytes)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	tracks, err := captionTracksFromWatchPage(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", videoID, err)
	}

	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return nil, fmt.Errorf("%s: %w in %s", videoID, ErrNoCaptions, strings.Join(langs, ", "))
	}

	captions, err := c.get(ctx, track.BaseURL, maxCaptionBytes)
	if err != nil {
		return nil, fmt.Errorf("timedtext: %w", err)
	}

	transcript, err := parseTimedText(captions)
	if err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}
	if len(transcript) == 0 {
		return nil, fmt.Errorf("%s: %w (empty track)", videoID, ErrNoCaptions)
	}
	return transcript, nil
}

func (c *TranscriptClient) get(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

// captionTracksFromWatchPage extracts the caption tracks from ytInitialPlayerResponse
func captionTracksFromWatchPage(page []byte) ([]captionTrack, error) {
	idx := strings.Index(string(page), ytInitialPlayerResponseMarker)
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	data := extractJSON(page[idx+len(ytInitialPlayerResponseMarker):])
	if data == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var player playerResponse
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	if player.Captions == nil {
		if player.PlayabilityStatus != nil && player.PlayabilityStatus.Reason != "" {
			return nil, fmt.Errorf("%w: %s", ErrNoCaptions, player.PlayabilityStatus.Reason)
		}
		return nil, ErrNoCaptions
	}
	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, ErrNoCaptions
	}
	return tracks, nil
}

// needsPoToken reports whether a caption track URL can only be fetched by a browser
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack walks langs in order of preference and, within a language,
// prefers a manual track over an auto-generated one. Tracks in other
// languages are never picked.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	for _, lang := range langs {
		var generated *captionTrack
		for i, t := range tracks {
			if t.LanguageCode != lang || t.BaseURL == "" || needsPoToken(t.BaseURL) {
				continue
			}
			if t.Kind != "asr" {
				return t, true
			}
			if generated == nil {
				generated = &tracks[i]
			}
		}
		if generated != nil {
			return *generated, true
		}
	}
	return captionTrack{}, false
}

// timedText covers both the legacy <transcript><text> layout and srv3 <timedtext><body><p>
type timedText struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Text  string `xml:",chardata"`
	} `xml:"text"`
	Paragraphs []struct {
		T    string `xml:"t,attr"`
		D    string `xml:"d,attr"`
		Text string `xml:",innerxml"`
	} `xml:"body>p"`
}

func parseTimedText(data []byte) (Transcript, error) {
	var tt timedText
	if err := xml.Unmarshal(data, &tt); err != nil {
		return nil, err
	}

	transcript := make(Transcript, 0, len(tt.Texts)+len(tt.Paragraphs))
	for _, line := range tt.Texts {
		text := cleanCaption(line.Text)
		if text == "" {
			continue
		}
		transcript = append(transcript, Segment{
			Text:     text,
			Start:    parseSeconds(line.Start),
			Duration: parseSeconds(line.Dur),
		})
	}
	for _, p := range tt.Paragraphs {
		text := cleanCaption(stripTags(p.Text))
		if text == "" {
			continue
		}
		transcript = append(transcript, Segment{
			Text:     text,
			Start:    parseSeconds(p.T) / 1000,
			Duration: parseSeconds(p.D) / 1000,
		})
	}
	return transcript, nil
}

// cleanCaption undoes the second level of entity escaping YouTube applies
// and folds line breaks
func cleanCaption(s string) string {
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// stripTags drops inline <s> word timing tags from srv3 paragraphs
func stripTags(s string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func parseSeconds(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}
