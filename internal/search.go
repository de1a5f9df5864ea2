package internal

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"text/template"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// DefaultSearchResults matches the API's own default page size
const DefaultSearchResults = 5

// Searcher finds channel videos matching a keyword query
type Searcher interface {
	Search(ctx context.Context, channelID, query string, maxResults int64) ([]*Video, error)
}

// YouTubeSearcher queries the YouTube Data API v3 search endpoint
type YouTubeSearcher struct {
	service *youtube.Service
}

// NewYouTubeSearcher creates a search client. Extra options (an endpoint or an
// HTTP client) are passed through to the API service.
func NewYouTubeSearcher(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeSearcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key required")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &YouTubeSearcher{service: service}, nil
}

// NewYouTubeSearcherWithClient points the service at a custom endpoint, for tests and proxies
func NewYouTubeSearcherWithClient(ctx context.Context, apiKey, endpoint string, httpClient *http.Client) (*YouTubeSearcher, error) {
	return NewYouTubeSearcher(ctx, apiKey, option.WithEndpoint(endpoint), option.WithHTTPClient(httpClient))
}

func (s *YouTubeSearcher) Search(ctx context.Context, channelID, query string, maxResults int64) ([]*Video, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if maxResults <= 0 {
		maxResults = DefaultSearchResults
	}

	call := s.service.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Type("video").
		Q(query).
		MaxResults(maxResults).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}
	return videosFromSearch(resp), nil
}

// videosFromSearch keeps every video hit. The API returns titles with HTML
// entities already applied, so they are decoded here and escaped once on render.
func videosFromSearch(resp *youtube.SearchListResponse) []*Video {
	if resp == nil {
		return nil
	}
	videos := make([]*Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		video := NewVideo(item.Id.VideoId, html.UnescapeString(item.Snippet.Title))
		video.Description = html.UnescapeString(item.Snippet.Description)

		thumb := Thumbnail{}
		if t := item.Snippet.Thumbnails; t != nil && t.Default != nil {
			thumb = Thumbnail{URL: t.Default.Url, Width: int(t.Default.Width), Height: int(t.Default.Height)}
		}
		video.setThumbnail(thumb)
		videos = append(videos, video)
	}
	return videos
}

var videoItemTemplate = template.Must(template.New("video-item").Funcs(template.FuncMap{
	"escape": html.EscapeString,
}).Parse(`<div class="video-item" onclick="window.open('{{.URL}}', '_blank')">
    <img src="{{.ThumbnailURL}}" alt="Thumbnail for video titled {{escape .Title}}">
    <div class="video-details">
       <strong>{{escape .Title}}</strong>
           <p>{{escape .Description}}</p>
       </div>
    </div>`))

// RenderVideoItems renders one clickable video-item block per video, joined by newlines
func RenderVideoItems(videos []*Video) (string, error) {
	items := make([]string, 0, len(videos))
	for _, v := range videos {
		var sb strings.Builder
		if err := videoItemTemplate.Execute(&sb, v); err != nil {
			return "", fmt.Errorf("render %s: %w", v.VideoID, err)
		}
		items = append(items, sb.String())
	}
	return strings.Join(items, "\n"), nil
}
