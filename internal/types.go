package internal

import (
	"errors"
	"fmt"
	"strings"
)

const (
	watchURLPrefix = "https://www.youtube.com/watch?v="
	embedURLPrefix = "https://www.youtube.com/embed/"

	noDescription  = "No description available."
	noThumbnailURL = "No thumbnail URL."
)

// ErrMalformedVideo is returned when a listing entry cannot become a Video
var ErrMalformedVideo = errors.New("malformed video data")

// Video is one channel video and the help page generated for it
type Video struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	EmbedURL        string `json:"embed_url"`
	Description     string `json:"description"`
	ThumbnailURL    string `json:"thumbnail_url"`
	ThumbnailWidth  int    `json:"thumbnail_width"`
	ThumbnailHeight int    `json:"thumbnail_height"`
	HTMLFilename    string `json:"html_filename"`
}

// NewVideo builds a Video with the canonical watch and embed URLs
func NewVideo(id, title string) *Video {
	return &Video{
		VideoID:     id,
		Title:       title,
		URL:         WatchURL(id),
		EmbedURL:    embedURLPrefix + id,
		Description: noDescription,
	}
}

// WatchURL returns the canonical watch page URL for a video ID
func WatchURL(videoID string) string {
	return watchURLPrefix + videoID
}

// VideoRenderer is the videoRenderer object of a channel listing
type VideoRenderer struct {
	VideoID            string         `json:"videoId,omitempty"`
	Title              *TextRuns      `json:"title,omitempty"`
	DescriptionSnippet *TextRuns      `json:"descriptionSnippet,omitempty"`
	Thumbnail          *ThumbnailList `json:"thumbnail,omitempty"`
}

// TextRuns contains text with optional runs for formatting
type TextRuns struct {
	Runs       []TextRun `json:"runs,omitempty"`
	SimpleText string    `json:"simpleText,omitempty"`
}

// TextRun is a segment of text
type TextRun struct {
	Text string `json:"text,omitempty"`
}

// ThumbnailList contains thumbnail images, smallest first
type ThumbnailList struct {
	Thumbnails []Thumbnail `json:"thumbnails,omitempty"`
}

// Thumbnail represents a single thumbnail
type Thumbnail struct {
	URL    string `json:"url,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// VideoFromRenderer converts a listing entry to a Video. The title comes from
// the first title run, the description from the first line of the first
// snippet run and the thumbnail from the second listed size.
func VideoFromRenderer(r *VideoRenderer) (*Video, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: empty entry", ErrMalformedVideo)
	}
	if r.VideoID == "" {
		return nil, fmt.Errorf("%w: key 'videoId' missing", ErrMalformedVideo)
	}
	if r.Title == nil || len(r.Title.Runs) == 0 {
		return nil, fmt.Errorf("%w: key 'title.runs' missing for %s", ErrMalformedVideo, r.VideoID)
	}

	video := NewVideo(r.VideoID, r.Title.Runs[0].Text)

	if r.DescriptionSnippet != nil && len(r.DescriptionSnippet.Runs) > 0 {
		description, _, _ := strings.Cut(r.DescriptionSnippet.Runs[0].Text, "\n")
		video.Description = description
	}

	var thumbnails []Thumbnail
	if r.Thumbnail != nil {
		thumbnails = r.Thumbnail.Thumbnails
	}
	if len(thumbnails) < 2 {
		return nil, fmt.Errorf("%w: index error in thumbnails for %s (%d listed)", ErrMalformedVideo, r.VideoID, len(thumbnails))
	}
	video.setThumbnail(thumbnails[1])

	return video, nil
}

func (v *Video) setThumbnail(t Thumbnail) {
	v.ThumbnailURL = t.URL
	if v.ThumbnailURL == "" {
		v.ThumbnailURL = noThumbnailURL
	}
	v.ThumbnailWidth = t.Width
	v.ThumbnailHeight = t.Height
}

// Listing is one entry of a channel listing. Err is set when the entry could
// not be turned into a Video.
type Listing struct {
	Video *Video
	Err   error
}

// ProcessStatus is the outcome of processing one video
type ProcessStatus int

const (
	StatusProcessed ProcessStatus = iota
	StatusSkipped
	StatusFailed
	StatusPlanned // would be built, dry run only
)

// String returns a human-readable representation of the status
func (s ProcessStatus) String() string {
	switch s {
	case StatusProcessed:
		return "processed"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusPlanned:
		return "would build"
	default:
		return "unknown"
	}
}
