package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultAPIBaseURL    = "https://www.googleapis.com/youtube/v3"
	defaultShortsBaseURL = "https://www.youtube.com/shorts"

	// channelIDLength distinguishes a raw channel id from a legacy
	// username in subscribe requests.
	channelIDLength = 24

	requestTimeout = 15 * time.Second
)

// ErrChannelNotFound is returned when the API answers successfully but
// knows no channel for the given id or username.
var ErrChannelNotFound = errors.New("youtube: channel not found")

// FetchError wraps any transport or parse failure talking to the YouTube
// API. The synchronizer treats it as a transient condition: the channel is
// skipped this pass and retried on the next sweep.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("youtube %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ChannelInfo is the channel metadata the synchronizer merges into the
// store.
type ChannelInfo struct {
	YoutubeID         string
	Title             string
	LogoURL           string
	Description       string
	UploadsPlaylistID string
}

// VideoInfo is one entry of a channel's uploads playlist.
type VideoInfo struct {
	YoutubeID    string
	Title        string
	Description  string
	ThumbnailURL string
	PublishedAt  time.Time
}

// Client calls the YouTube Data API v3. All calls carry a bounded timeout
// and pass through a shared rate limiter so sweeps cannot hammer the API.
type Client struct {
	apiKey           string
	apiBaseURL       string
	shortsBaseURL    string
	httpClient       *http.Client
	noRedirectClient *http.Client
	limiter          *rate.Limiter
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:        apiKey,
		apiBaseURL:    defaultAPIBaseURL,
		shortsBaseURL: defaultShortsBaseURL,
		httpClient:    &http.Client{Timeout: requestTimeout},
		// Short-form detection inspects the redirect itself, so this
		// client must not follow it.
		noRedirectClient: &http.Client{
			Timeout: requestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Op: endpoint, Err: err}
	}

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return &FetchError{Op: endpoint, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Op: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{Op: endpoint, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Op: endpoint, Err: err}
	}
	return nil
}

type thumbnail struct {
	URL string `json:"url"`
}

type thumbnails struct {
	Default thumbnail `json:"default"`
	High    thumbnail `json:"high"`
}

type channelListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string     `json:"title"`
			Description string     `json:"description"`
			Thumbnails  thumbnails `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	Items []struct {
		Snippet struct {
			Title       string     `json:"title"`
			Description string     `json:"description"`
			PublishedAt string     `json:"publishedAt"`
			Thumbnails  thumbnails `json:"thumbnails"`
			ResourceID  struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

// ResolveChannelID turns a subscribe-form value into a channel id. Raw
// channel ids pass through; anything else is treated as a legacy username
// and looked up.
func (c *Client) ResolveChannelID(ctx context.Context, idOrUsername string) (string, error) {
	if len(idOrUsername) == channelIDLength {
		return idOrUsername, nil
	}

	var resp channelListResponse
	params := url.Values{"part": {"snippet"}, "forUsername": {idOrUsername}}
	if err := c.get(ctx, "/channels", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", ErrChannelNotFound
	}
	return resp.Items[0].ID, nil
}

// FetchChannel returns the channel's current metadata, including the id of
// its uploads playlist.
func (c *Client) FetchChannel(ctx context.Context, youtubeID string) (*ChannelInfo, error) {
	var resp channelListResponse
	params := url.Values{"part": {"snippet,contentDetails"}, "id": {youtubeID}}
	if err := c.get(ctx, "/channels", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, ErrChannelNotFound
	}

	item := resp.Items[0]
	return &ChannelInfo{
		YoutubeID:         item.ID,
		Title:             item.Snippet.Title,
		LogoURL:           item.Snippet.Thumbnails.Default.URL,
		Description:       item.Snippet.Description,
		UploadsPlaylistID: item.ContentDetails.RelatedPlaylists.Uploads,
	}, nil
}

// FetchRecentVideos returns the most recent n entries of an uploads
// playlist, in the order the API reports them.
func (c *Client) FetchRecentVideos(ctx context.Context, playlistID string, n int) ([]VideoInfo, error) {
	var resp playlistItemsResponse
	params := url.Values{
		"part":       {"snippet"},
		"maxResults": {strconv.Itoa(n)},
		"playlistId": {playlistID},
	}
	if err := c.get(ctx, "/playlistItems", params, &resp); err != nil {
		return nil, err
	}

	videos := make([]VideoInfo, 0, len(resp.Items))
	for _, item := range resp.Items {
		published, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			return nil, &FetchError{Op: "/playlistItems", Err: fmt.Errorf("bad publishedAt %q: %w", item.Snippet.PublishedAt, err)}
		}

		thumb := item.Snippet.Thumbnails.High.URL
		if thumb == "" {
			thumb = item.Snippet.Thumbnails.Default.URL
		}

		videos = append(videos, VideoInfo{
			YoutubeID:    item.Snippet.ResourceID.VideoID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: thumb,
			PublishedAt:  published,
		})
	}
	return videos, nil
}

// CheckShort reports whether a video is a short. The shorts URL redirects
// to the regular watch page for normal videos and serves the page directly
// for shorts, so a non-redirect answer means the video is a short.
func (c *Client) CheckShort(ctx context.Context, videoID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.shortsBaseURL+"/"+videoID, nil)
	if err != nil {
		return false, &FetchError{Op: "shorts", Err: err}
	}

	resp, err := c.noRedirectClient.Do(req)
	if err != nil {
		return false, &FetchError{Op: "shorts", Err: err}
	}
	resp.Body.Close()

	redirected := resp.StatusCode >= 300 && resp.StatusCode < 400
	return !redirected, nil
}
