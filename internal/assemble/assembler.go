// Package assemble merges a subscriber's per-channel video streams into
// one filtered, time-ordered sequence for rendering.
package assemble

import (
	"yrss/internal/db"
	"yrss/internal/filter"
	"yrss/internal/models"
)

// Assembler walks a subscriber's subscriptions page by page, newest video
// first, applying the subscriber's filters.
type Assembler struct {
	filters  *filter.Engine
	pageSize int
}

func New(filters *filter.Engine, pageSize int) *Assembler {
	return &Assembler{
		filters:  filters,
		pageSize: pageSize,
	}
}

// Assemble returns up to limit videos across all of the subscriber's
// subscriptions in global published-descending order, with the
// subscriber's filters applied. A subscriber with no subscriptions gets an
// empty slice. The multi-channel feed applies user filters only; the
// short-form exclusion belongs to the single-channel views.
func (a *Assembler) Assemble(subscriberID int64, limit int) ([]models.Video, error) {
	videos := make([]models.Video, 0, limit)

	for offset := 0; ; offset += a.pageSize {
		page, err := db.GetVideosBySubscriberID(subscriberID, a.pageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return videos, nil
		}

		for i := range page {
			excluded, err := a.filters.IsExcluded(subscriberID, page[i].ChannelID, page[i].Title)
			if err != nil {
				return nil, err
			}
			if excluded {
				continue
			}

			videos = append(videos, page[i])
			if len(videos) == limit {
				return videos, nil
			}
		}
	}
}
