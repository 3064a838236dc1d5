package feed

import (
	"fmt"
	"html"
	"time"

	"github.com/gorilla/feeds"
	"yrss/internal/models"
)

func videoItem(v *models.Video) *feeds.Item {
	watchURL := v.WatchURL()
	return &feeds.Item{
		Title:   v.Title,
		Link:    &feeds.Link{Href: watchURL},
		Id:      v.YoutubeID,
		Created: v.PublishedAt,
		Updated: v.UpdatedAt,
		Content: fmt.Sprintf(`<a href=%q><img src=%q /></a><a href=%q>%s</a>`,
			watchURL, v.ThumbnailURL, watchURL, html.EscapeString(v.Title)),
	}
}

func lastUpdated(fallback time.Time, videos []models.Video) time.Time {
	updated := fallback
	for i := range videos {
		if videos[i].UpdatedAt.After(updated) {
			updated = videos[i].UpdatedAt
		}
	}
	return updated
}

// GeneratePersonalAtom renders the merged multi-channel feed for one
// subscriber. The videos are expected to already be filtered and ordered
// by the assembler.
func GeneratePersonalAtom(subscriber *models.Subscriber, videos []models.Video, baseURL string) (string, error) {
	f := &feeds.Feed{
		Title:       fmt.Sprintf("%s's subscriptions", subscriber.Email),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/feed/%s.xml", baseURL, subscriber.FeedToken)},
		Description: "Your subscribed YouTube channels in one feed.",
		Id:          "yrss:" + subscriber.FeedToken,
		Updated:     lastUpdated(subscriber.UpdatedAt, videos),
	}

	for i := range videos {
		f.Items = append(f.Items, videoItem(&videos[i]))
	}

	return f.ToAtom()
}

// GenerateChannelAtom renders a single channel's feed.
func GenerateChannelAtom(channel *models.Channel, videos []models.Video) (string, error) {
	f := &feeds.Feed{
		Title:       channel.Title,
		Link:        &feeds.Link{Href: channel.URL()},
		Description: channel.Description,
		Id:          "yrss:channel:" + channel.YoutubeID,
		Updated:     lastUpdated(channel.LastSynced, videos),
	}
	if channel.LogoURL != "" {
		f.Image = &feeds.Image{Url: channel.LogoURL, Title: channel.Title, Link: channel.URL()}
	}

	for i := range videos {
		f.Items = append(f.Items, videoItem(&videos[i]))
	}

	return f.ToAtom()
}
