package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoFromRenderer(t *testing.T) {
	thumbs := &ThumbnailList{Thumbnails: []Thumbnail{
		{URL: "https://t/small.jpg", Width: 168, Height: 94},
		{URL: "", Width: 0, Height: 0},
	}}

	tests := []struct {
		name     string
		renderer *VideoRenderer
		wantErr  string
		check    func(t *testing.T, v *Video)
	}{
		{
			name:     "missing description and thumbnail URL",
			renderer: &VideoRenderer{VideoID: "vid00000001", Title: &TextRuns{Runs: []TextRun{{Text: "Créer"}}}, Thumbnail: thumbs},
			check: func(t *testing.T, v *Video) {
				assert.Equal(t, noDescription, v.Description)
				assert.Equal(t, noThumbnailURL, v.ThumbnailURL)
				assert.Zero(t, v.ThumbnailWidth)
				assert.Empty(t, v.HTMLFilename)
				assert.Equal(t, "https://www.youtube.com/watch?v=vid00000001", v.URL)
			},
		},
		{
			name:     "missing videoId",
			renderer: &VideoRenderer{Title: &TextRuns{Runs: []TextRun{{Text: "x"}}}, Thumbnail: thumbs},
			wantErr:  "videoId",
		},
		{
			name:     "missing title runs",
			renderer: &VideoRenderer{VideoID: "vid00000001", Title: &TextRuns{SimpleText: "x"}, Thumbnail: thumbs},
			wantErr:  "title.runs",
		},
		{
			name:     "no thumbnails",
			renderer: &VideoRenderer{VideoID: "vid00000001", Title: &TextRuns{Runs: []TextRun{{Text: "x"}}}},
			wantErr:  "index error",
		},
		{
			name:    "nil entry",
			wantErr: "empty entry",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := VideoFromRenderer(tt.renderer)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedVideo))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, v)
		})
	}
}

func TestProcessStatusString(t *testing.T) {
	assert.Equal(t, "processed", StatusProcessed.String())
	assert.Equal(t, "skipped", StatusSkipped.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "would build", StatusPlanned.String())
	assert.Equal(t, "unknown", ProcessStatus(42).String())
}
