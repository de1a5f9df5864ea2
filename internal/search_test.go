package internal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/youtube/v3"
)

func TestVideosFromSearch(t *testing.T) {
	resp := &youtube.SearchListResponse{Items: []*youtube.SearchResult{
		{
			Id: &youtube.ResourceId{Kind: "youtube#video", VideoId: "vid00000001"},
			Snippet: &youtube.SearchResultSnippet{
				Title:       "Créer une facture &amp; l&#39;envoyer",
				Description: "Étape par étape",
				Thumbnails: &youtube.ThumbnailDetails{
					Default: &youtube.Thumbnail{Url: "https://i.ytimg.com/vi/vid00000001/default.jpg", Width: 120, Height: 90},
				},
			},
		},
		{Id: &youtube.ResourceId{Kind: "youtube#channel", ChannelId: "UCxxxx"}},
		{Id: &youtube.ResourceId{VideoId: "vid00000002"}, Snippet: &youtube.SearchResultSnippet{Title: "Sans miniature"}},
	}}

	videos := videosFromSearch(resp)
	require.Len(t, videos, 2)

	assert.Equal(t, "Créer une facture & l'envoyer", videos[0].Title)
	assert.Equal(t, "Étape par étape", videos[0].Description)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid00000001", videos[0].URL)
	assert.Equal(t, 120, videos[0].ThumbnailWidth)

	assert.Equal(t, noThumbnailURL, videos[1].ThumbnailURL)
	assert.Empty(t, videosFromSearch(nil))
}

func TestRenderVideoItems(t *testing.T) {
	videos := []*Video{
		{URL: "https://www.youtube.com/watch?v=a", ThumbnailURL: "https://t/a.jpg", Title: `Tom & "Jerry"`, Description: "<b>gras</b>"},
		{URL: "https://www.youtube.com/watch?v=b", ThumbnailURL: "https://t/b.jpg", Title: "Devis", Description: "Créer un devis"},
	}

	got, err := RenderVideoItems(videos)
	require.NoError(t, err)

	want := `<div class="video-item" onclick="window.open('https://www.youtube.com/watch?v=a', '_blank')">
    <img src="https://t/a.jpg" alt="Thumbnail for video titled Tom &amp; &#34;Jerry&#34;">
    <div class="video-details">
       <strong>Tom &amp; &#34;Jerry&#34;</strong>
           <p>&lt;b&gt;gras&lt;/b&gt;</p>
       </div>
    </div>
<div class="video-item" onclick="window.open('https://www.youtube.com/watch?v=b', '_blank')">
    <img src="https://t/b.jpg" alt="Thumbnail for video titled Devis">
    <div class="video-details">
       <strong>Devis</strong>
           <p>Créer un devis</p>
       </div>
    </div>`
	assert.Equal(t, want, got)

	empty, err := RenderVideoItems(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestYouTubeSearcher(t *testing.T) {
	var gotQuery, gotChannel, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery, gotChannel, gotType = q.Get("q"), q.Get("channelId"), q.Get("type")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[{"id":{"kind":"youtube#video","videoId":"vid00000001"},"snippet":{"title":"Créer une facture","description":"Tutoriel","thumbnails":{"default":{"url":"https://t/1.jpg","width":120,"height":90}}}}]}`)
	}))
	defer srv.Close()

	ctx := context.Background()
	searcher, err := NewYouTubeSearcherWithClient(ctx, "test-key", srv.URL+"/", srv.Client())
	require.NoError(t, err)

	videos, err := searcher.Search(ctx, testChannelID, "créer une facture", 0)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Créer une facture", videos[0].Title)
	assert.Equal(t, "créer une facture", gotQuery)
	assert.Equal(t, testChannelID, gotChannel)
	assert.Equal(t, "video", gotType)

	_, err = searcher.Search(ctx, testChannelID, "  ", 0)
	assert.Error(t, err)
}

func TestNewYouTubeSearcherRequiresKey(t *testing.T) {
	_, err := NewYouTubeSearcher(context.Background(), "")
	assert.Error(t, err)
}
