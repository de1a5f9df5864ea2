package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChannelID = "UCEwkL7_F9fob_wOIRBuRL6Q"

func richItem(id, title string, thumbs int) string {
	var list []string
	for i := 0; i < thumbs; i++ {
		list = append(list, fmt.Sprintf(`{"url":"https://i.ytimg.com/vi/%s/%d.jpg","width":%d,"height":%d}`, id, i, 168*(i+1), 94*(i+1)))
	}
	thumbJSON := "["
	for i, s := range list {
		if i > 0 {
			thumbJSON += ","
		}
		thumbJSON += s
	}
	thumbJSON += "]"
	return fmt.Sprintf(`{"richItemRenderer":{"content":{"videoRenderer":{"videoId":%q,"title":{"runs":[{"text":%q}]},"descriptionSnippet":{"runs":[{"text":"Première ligne\nseconde ligne"}]},"thumbnail":{"thumbnails":%s}}}}}`, id, title, thumbJSON)
}

const continuationItem = `{"continuationItemRenderer":{"continuationEndpoint":{"continuationCommand":{"token":"PAGE2"}}}}`

func newBrowseServer(t *testing.T) (*httptest.Server, *[]browseRequest) {
	t.Helper()
	var requests []browseRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req browseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		requests = append(requests, req)

		switch req.Continuation {
		case "":
			fmt.Fprintf(w, `{"contents":{"twoColumnBrowseResultsRenderer":{"tabs":[{"tabRenderer":{"selected":false}},{"tabRenderer":{"selected":true,"content":{"richGridRenderer":{"contents":[%s,%s,%s]}}}}]}}}`,
				richItem("vid00000001", "Créer une facture", 4), richItem("vid00000002", "Broken", 1), continuationItem)
		case "PAGE2":
			fmt.Fprintf(w, `{"onResponseReceivedActions":[{"appendContinuationItemsAction":{"continuationItems":[%s]}}]}`,
				richItem("vid00000003", "Gérer les devis", 2))
		default:
			http.Error(w, "bad token", http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestInnertubeListVideos(t *testing.T) {
	srv, requests := newBrowseServer(t)
	lister := NewInnertubeLister(srv.Client(), srv.URL)

	listings, err := lister.ListVideos(context.Background(), "https://www.youtube.com/channel/"+testChannelID, 0)
	require.NoError(t, err)
	require.Len(t, listings, 3)

	first := listings[0]
	require.NoError(t, first.Err)
	assert.Equal(t, "vid00000001", first.Video.VideoID)
	assert.Equal(t, "Créer une facture", first.Video.Title)
	assert.Equal(t, "Première ligne", first.Video.Description)
	assert.Equal(t, "https://i.ytimg.com/vi/vid00000001/1.jpg", first.Video.ThumbnailURL)
	assert.Equal(t, 336, first.Video.ThumbnailWidth)
	assert.Equal(t, 188, first.Video.ThumbnailHeight)

	assert.True(t, errors.Is(listings[1].Err, ErrMalformedVideo), "single thumbnail is an index error")
	assert.Nil(t, listings[1].Video)

	require.NoError(t, listings[2].Err)
	assert.Equal(t, "Gérer les devis", listings[2].Video.Title)

	require.Len(t, *requests, 2)
	assert.Equal(t, testChannelID, (*requests)[0].BrowseID)
	assert.Equal(t, videosTabParams, (*requests)[0].Params)
	assert.Equal(t, "PAGE2", (*requests)[1].Continuation)
}

func TestInnertubeListVideosLimit(t *testing.T) {
	srv, requests := newBrowseServer(t)
	lister := NewInnertubeLister(srv.Client(), srv.URL)

	listings, err := lister.ListVideos(context.Background(), testChannelID, 1)
	require.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Len(t, *requests, 1)
}

func TestInnertubeListVideosLimitSkipsMalformed(t *testing.T) {
	srv, requests := newBrowseServer(t)
	lister := NewInnertubeLister(srv.Client(), srv.URL)

	listings, err := lister.ListVideos(context.Background(), testChannelID, 2)
	require.NoError(t, err)
	require.Len(t, listings, 3)
	assert.Error(t, listings[1].Err)
	assert.Equal(t, "vid00000003", listings[2].Video.VideoID)
	assert.Len(t, *requests, 2, "the malformed entry forces a second page")
}

func TestInnertubeListVideosHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewInnertubeLister(srv.Client(), srv.URL).ListVideos(context.Background(), testChannelID, 0)
	assert.Error(t, err)
}

func TestResolveChannelID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare channel ID", input: testChannelID, want: testChannelID},
		{name: "channel URL", input: "https://www.youtube.com/channel/" + testChannelID + "/videos", want: testChannelID},
		{name: "handle", input: "@someuser", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveChannelID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
