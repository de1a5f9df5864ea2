package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
)

const (
	// defaultBrowseEndpoint is the Innertube API endpoint for browsing channel content.
	defaultBrowseEndpoint = "https://www.youtube.com/youtubei/v1/browse?prettyPrint=false"

	innertubeClientName    = "WEB"
	innertubeClientVersion = "2.20240101.00.00"

	// videosTabParams selects the Videos tab of a channel
	videosTabParams = "EgZ2aWRlb3PyBgQKAjoA"

	// maxBrowsePages bounds pagination when the API keeps returning tokens
	maxBrowsePages = 500
)

// Lister kinds accepted by the lister setting
const (
	ListerInnertube = "innertube"
	ListerRSS       = "rss"
)

// channelIDRegex matches YouTube channel IDs (UC followed by 22 chars).
var channelIDRegex = regexp.MustCompile(`UC[\w-]{22}`)

// VideoLister lists the videos of a channel, newest first. limit <= 0 means all.
type VideoLister interface {
	ListVideos(ctx context.Context, channelID string, limit int) ([]Listing, error)
}

// ResolveChannelID accepts a bare channel ID or a /channel/ URL
func ResolveChannelID(input string) (string, error) {
	id := channelIDRegex.FindString(input)
	if id == "" {
		return "", fmt.Errorf("no channel ID (UC...) found in %q", input)
	}
	return id, nil
}

// InnertubeLister pages through a channel's Videos tab with continuation tokens
type InnertubeLister struct {
	httpClient *http.Client
	endpoint   string
}

// NewInnertubeLister creates a lister. endpoint defaults to the YouTube browse API.
func NewInnertubeLister(httpClient *http.Client, endpoint string) *InnertubeLister {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = defaultBrowseEndpoint
	}
	return &InnertubeLister{httpClient: httpClient, endpoint: endpoint}
}

type browseRequest struct {
	Context struct {
		Client struct {
			ClientName    string `json:"clientName"`
			ClientVersion string `json:"clientVersion"`
			HL            string `json:"hl"`
			GL            string `json:"gl"`
		} `json:"client"`
	} `json:"context"`
	BrowseID     string `json:"browseId,omitempty"`
	Params       string `json:"params,omitempty"`
	Continuation string `json:"continuation,omitempty"`
}

type browseResponse struct {
	Contents *struct {
		TwoColumnBrowseResultsRenderer *struct {
			Tabs []struct {
				TabRenderer *struct {
					Selected bool `json:"selected"`
					Content  *struct {
						RichGridRenderer *struct {
							Contents []gridItem `json:"contents"`
						} `json:"richGridRenderer"`
					} `json:"content"`
				} `json:"tabRenderer"`
			} `json:"tabs"`
		} `json:"twoColumnBrowseResultsRenderer"`
	} `json:"contents"`
	OnResponseReceivedActions []struct {
		AppendContinuationItemsAction *struct {
			ContinuationItems []gridItem `json:"continuationItems"`
		} `json:"appendContinuationItemsAction"`
	} `json:"onResponseReceivedActions"`
}

type gridItem struct {
	RichItemRenderer *struct {
		Content *struct {
			VideoRenderer *VideoRenderer `json:"videoRenderer"`
		} `json:"content"`
	} `json:"richItemRenderer"`
	ContinuationItemRenderer *struct {
		ContinuationEndpoint *struct {
			ContinuationCommand *struct {
				Token string `json:"token"`
			} `json:"continuationCommand"`
		} `json:"continuationEndpoint"`
	} `json:"continuationItemRenderer"`
}

// ListVideos fetches pages until the channel is exhausted or limit videos
// were collected. Malformed entries are returned but do not count. On a failing page the entries gathered so far are returned
// with the error.
func (l *InnertubeLister) ListVideos(ctx context.Context, channelID string, limit int) ([]Listing, error) {
	id, err := ResolveChannelID(channelID)
	if err != nil {
		return nil, err
	}

	var listings []Listing
	valid := 0
	token := ""
	for page := 0; page < maxBrowsePages; page++ {
		if err := ctx.Err(); err != nil {
			return listings, err
		}

		resp, err := l.browse(ctx, id, token)
		if err != nil {
			return listings, fmt.Errorf("browse %s: %w", id, err)
		}

		renderers, next := resp.items()
		for _, r := range renderers {
			video, err := VideoFromRenderer(r)
			listings = append(listings, Listing{Video: video, Err: err})
			if err == nil {
				valid++
			}
			if limit > 0 && valid >= limit {
				return listings, nil
			}
		}

		if next == "" {
			break
		}
		token = next
	}
	return listings, nil
}

func (l *InnertubeLister) browse(ctx context.Context, channelID, continuation string) (*browseResponse, error) {
	var req browseRequest
	req.Context.Client.ClientName = innertubeClientName
	req.Context.Client.ClientVersion = innertubeClientVersion
	req.Context.Client.HL = "fr"
	req.Context.Client.GL = "FR"
	if continuation != "" {
		req.Continuation = continuation
	} else {
		req.BrowseID = channelID
		req.Params = videosTabParams
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", browserUserAgent)
	httpReq.Header.Set("Origin", "https://www.youtube.com")
	httpReq.Header.Set("Referer", "https://www.youtube.com/")

	httpResp, err := l.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, fmt.Errorf("browse returned %d: %s", httpResp.StatusCode, snippet)
	}

	var resp browseResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}

// items returns the video renderers of a page, in order, and the next continuation token
func (r *browseResponse) items() ([]*VideoRenderer, string) {
	var items []gridItem
	if r.Contents != nil && r.Contents.TwoColumnBrowseResultsRenderer != nil {
		for _, tab := range r.Contents.TwoColumnBrowseResultsRenderer.Tabs {
			tr := tab.TabRenderer
			if tr == nil || !tr.Selected || tr.Content == nil || tr.Content.RichGridRenderer == nil {
				continue
			}
			items = append(items, tr.Content.RichGridRenderer.Contents...)
		}
	}
	for _, action := range r.OnResponseReceivedActions {
		if action.AppendContinuationItemsAction != nil {
			items = append(items, action.AppendContinuationItemsAction.ContinuationItems...)
		}
	}

	var renderers []*VideoRenderer
	token := ""
	for _, item := range items {
		if item.RichItemRenderer != nil && item.RichItemRenderer.Content != nil && item.RichItemRenderer.Content.VideoRenderer != nil {
			renderers = append(renderers, item.RichItemRenderer.Content.VideoRenderer)
		}
		if c := item.ContinuationItemRenderer; c != nil && c.ContinuationEndpoint != nil && c.ContinuationEndpoint.ContinuationCommand != nil {
			token = c.ContinuationEndpoint.ContinuationCommand.Token
		}
	}
	return renderers, token
}
