package internal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

const defaultFeedURL = "https://www.youtube.com/feeds/videos.xml"

// RSSLister reads the channel's Atom feed. YouTube only publishes the 15 most
// recent uploads there.
type RSSLister struct {
	feedParser *gofeed.Parser
	feedURL    string
}

// NewRSSLister creates a feed lister. feedURL defaults to the YouTube feed endpoint.
func NewRSSLister(httpClient *http.Client, feedURL string) *RSSLister {
	parser := gofeed.NewParser()
	if httpClient != nil {
		parser.Client = httpClient
	}
	if feedURL == "" {
		feedURL = defaultFeedURL
	}
	return &RSSLister{feedParser: parser, feedURL: feedURL}
}

func (l *RSSLister) ListVideos(ctx context.Context, channelID string, limit int) ([]Listing, error) {
	id, err := ResolveChannelID(channelID)
	if err != nil {
		return nil, err
	}

	feed, err := l.feedParser.ParseURLWithContext(l.feedURL+"?channel_id="+url.QueryEscape(id), ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse channel feed: %w", err)
	}

	listings := make([]Listing, 0, len(feed.Items))
	valid := 0
	for _, item := range feed.Items {
		video, err := videoFromFeedItem(item)
		listings = append(listings, Listing{Video: video, Err: err})
		if err == nil {
			valid++
		}
		if limit > 0 && valid >= limit {
			break
		}
	}
	return listings, nil
}

func videoFromFeedItem(item *gofeed.Item) (*Video, error) {
	videoID := extensionValue(item.Extensions, "yt", "videoId")
	if videoID == "" || item.Title == "" {
		return nil, fmt.Errorf("%w: feed entry %q lacks yt:videoId or title", ErrMalformedVideo, item.GUID)
	}

	video := NewVideo(videoID, item.Title)

	group := firstExtension(item.Extensions, "media", "group")
	if group == nil {
		video.setThumbnail(Thumbnail{})
		return video, nil
	}
	if desc := childValue(group, "description"); desc != "" {
		video.Description = strings.SplitN(desc, "\n", 2)[0]
	}
	if thumbs := group.Children["thumbnail"]; len(thumbs) > 0 {
		attrs := thumbs[0].Attrs
		w, _ := strconv.Atoi(attrs["width"])
		h, _ := strconv.Atoi(attrs["height"])
		video.setThumbnail(Thumbnail{URL: attrs["url"], Width: w, Height: h})
	} else {
		video.setThumbnail(Thumbnail{})
	}
	return video, nil
}

func firstExtension(exts ext.Extensions, namespace, name string) *ext.Extension {
	if exts == nil {
		return nil
	}
	list := exts[namespace][name]
	if len(list) == 0 {
		return nil
	}
	return &list[0]
}

func extensionValue(exts ext.Extensions, namespace, name string) string {
	if e := firstExtension(exts, namespace, name); e != nil {
		return strings.TrimSpace(e.Value)
	}
	return ""
}

func childValue(e *ext.Extension, name string) string {
	if children := e.Children[name]; len(children) > 0 {
		return strings.TrimSpace(children[0].Value)
	}
	return ""
}

// NewVideoLister picks the lister named by kind
func NewVideoLister(kind string, httpClient *http.Client) (VideoLister, error) {
	switch kind {
	case "", ListerInnertube:
		return NewInnertubeLister(httpClient, ""), nil
	case ListerRSS:
		return NewRSSLister(httpClient, ""), nil
	default:
		return nil, fmt.Errorf("unknown lister %q (want %s or %s)", kind, ListerInnertube, ListerRSS)
	}
}
