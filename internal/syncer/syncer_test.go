package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"yrss/internal/models"
	"yrss/internal/test"
	"yrss/internal/youtube"
)

// stubAPI implements ChannelAPI and counts calls, so tests can observe
// whether a sync touched the network.
type stubAPI struct {
	channelCalls int
	videoCalls   int
	shortCalls   int

	channelInfo *youtube.ChannelInfo
	channelErr  error
	videos      []youtube.VideoInfo
	videosErr   error
	short       bool
	shortErr    error
}

func (s *stubAPI) FetchChannel(ctx context.Context, youtubeID string) (*youtube.ChannelInfo, error) {
	s.channelCalls++
	if s.channelErr != nil {
		return nil, s.channelErr
	}
	return s.channelInfo, nil
}

func (s *stubAPI) FetchRecentVideos(ctx context.Context, playlistID string, n int) ([]youtube.VideoInfo, error) {
	s.videoCalls++
	if s.videosErr != nil {
		return nil, s.videosErr
	}
	return s.videos, nil
}

func (s *stubAPI) CheckShort(ctx context.Context, videoID string) (bool, error) {
	s.shortCalls++
	return s.short, s.shortErr
}

func channelRows(ch models.Channel) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "youtube_id", "title", "logo_url", "description", "uploads_playlist_id", "last_synced", "created_at"}).
		AddRow(ch.ID, ch.YoutubeID, ch.Title, ch.LogoURL, ch.Description, ch.UploadsPlaylistID, ch.LastSynced, ch.CreatedAt)
}

func testChannel(lastSynced time.Time) models.Channel {
	return models.Channel{
		ID:                1,
		YoutubeID:         "UC-test-channel-0000000",
		Title:             "Test Channel",
		LogoURL:           "https://img.example/logo.jpg",
		Description:       "A channel",
		UploadsPlaylistID: "UU-uploads",
		LastSynced:        lastSynced,
		CreatedAt:         time.Now().Add(-24 * time.Hour),
	}
}

func testInfo(ch models.Channel) *youtube.ChannelInfo {
	return &youtube.ChannelInfo{
		YoutubeID:         ch.YoutubeID,
		Title:             ch.Title,
		LogoURL:           ch.LogoURL,
		Description:       ch.Description,
		UploadsPlaylistID: ch.UploadsPlaylistID,
	}
}

func TestSyncTTLGateSkipsFreshChannel(t *testing.T) {
	_, mock := test.NewMockDB(t)

	ch := testChannel(time.Now())
	mock.ExpectQuery(`SELECT \* FROM channels WHERE id = \$1`).WithArgs(ch.ID).WillReturnRows(channelRows(ch))

	api := &stubAPI{}
	s := New(api, time.Hour, 20)

	result, err := s.Sync(context.Background(), ch.ID, false)
	assert.NoError(t, err)
	assert.Equal(t, Unchanged, result)
	// The gate must answer without any network call.
	assert.Equal(t, 0, api.channelCalls)
	assert.Equal(t, 0, api.videoCalls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncForceBypassesTTLGate(t *testing.T) {
	_, mock := test.NewMockDB(t)

	ch := testChannel(time.Now())
	mock.ExpectQuery(`SELECT \* FROM channels WHERE id = \$1`).WithArgs(ch.ID).WillReturnRows(channelRows(ch))
	mock.ExpectExec(`UPDATE channels\s+SET title`).
		WithArgs(ch.ID, ch.Title, ch.LogoURL, ch.Description, ch.UploadsPlaylistID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE channels SET last_synced = NOW\(\)`).WithArgs(ch.ID).WillReturnResult(sqlmock.NewResult(0, 1))

	api := &stubAPI{channelInfo: testInfo(ch)}
	s := New(api, time.Hour, 20)

	result, err := s.Sync(context.Background(), ch.ID, true)
	assert.NoError(t, err)
	assert.Equal(t, Unchanged, result)
	assert.Equal(t, 1, api.channelCalls)
	assert.Equal(t, 1, api.videoCalls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncFetchFailureLeavesClockUntouched(t *testing.T) {
	_, mock := test.NewMockDB(t)

	ch := testChannel(time.Now().Add(-2 * time.Hour))
	mock.ExpectQuery(`SELECT \* FROM channels WHERE id = \$1`).WithArgs(ch.ID).WillReturnRows(channelRows(ch))

	fetchErr := &youtube.FetchError{Op: "/channels", Err: errors.New("upstream unreachable")}
	api := &stubAPI{channelErr: fetchErr}
	s := New(api, time.Hour, 20)

	_, err := s.Sync(context.Background(), ch.ID, false)
	assert.Error(t, err)

	var fe *youtube.FetchError
	assert.True(t, errors.As(err, &fe))

	// No last_synced update was expected; a failed sync must not reset
	// the cache clock.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncCreatesNewVideoAndClassifiesIt(t *testing.T) {
	_, mock := test.NewMockDB(t)

	ch := testChannel(time.Now().Add(-2 * time.Hour))
	published := time.Now().Add(-time.Hour).Truncate(time.Second)

	mock.ExpectQuery(`SELECT \* FROM channels WHERE id = \$1`).WithArgs(ch.ID).WillReturnRows(channelRows(ch))
	mock.ExpectExec(`UPDATE channels\s+SET title`).
		WithArgs(ch.ID, ch.Title, ch.LogoURL, ch.Description, ch.UploadsPlaylistID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO videos`).
		WithArgs(ch.ID, "video1", "New video", "desc", "https://img.example/v1.jpg", published).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(true))
	mock.ExpectExec(`UPDATE videos SET short`).WithArgs(ch.ID, "video1", true).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE channels SET last_synced = NOW\(\)`).WithArgs(ch.ID).WillReturnResult(sqlmock.NewResult(0, 1))

	api := &stubAPI{
		channelInfo: testInfo(ch),
		videos: []youtube.VideoInfo{{
			YoutubeID:    "video1",
			Title:        "New video",
			Description:  "desc",
			ThumbnailURL: "https://img.example/v1.jpg",
			PublishedAt:  published,
		}},
		short: true,
	}
	s := New(api, time.Hour, 20)

	result, err := s.Sync(context.Background(), ch.ID, false)
	assert.NoError(t, err)
	assert.Equal(t, Changed, result)
	assert.Equal(t, 1, api.shortCalls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncIsUnchangedWhenStoreMatchesUpstream(t *testing.T) {
	_, mock := test.NewMockDB(t)

	ch := testChannel(time.Now().Add(-2 * time.Hour))
	published := time.Now().Add(-time.Hour).Truncate(time.Second)

	mock.ExpectQuery(`SELECT \* FROM channels WHERE id = \$1`).WithArgs(ch.ID).WillReturnRows(channelRows(ch))
	mock.ExpectExec(`UPDATE channels\s+SET title`).
		WithArgs(ch.ID, ch.Title, ch.LogoURL, ch.Description, ch.UploadsPlaylistID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// Upsert answers with no rows: the stored video already matches.
	mock.ExpectQuery(`INSERT INTO videos`).
		WithArgs(ch.ID, "video1", "Same video", "desc", "https://img.example/v1.jpg", published).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	// last_synced still moves forward so the TTL gate stays effective.
	mock.ExpectExec(`UPDATE channels SET last_synced = NOW\(\)`).WithArgs(ch.ID).WillReturnResult(sqlmock.NewResult(0, 1))

	api := &stubAPI{
		channelInfo: testInfo(ch),
		videos: []youtube.VideoInfo{{
			YoutubeID:    "video1",
			Title:        "Same video",
			Description:  "desc",
			ThumbnailURL: "https://img.example/v1.jpg",
			PublishedAt:  published,
		}},
	}
	s := New(api, time.Hour, 20)

	result, err := s.Sync(context.Background(), ch.ID, false)
	assert.NoError(t, err)
	assert.Equal(t, Unchanged, result)
	// An unchanged video is not a new one; no classification runs.
	assert.Equal(t, 0, api.shortCalls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncFailureOnOneChannelDoesNotAffectAnother(t *testing.T) {
	_, mock := test.NewMockDB(t)

	bad := testChannel(time.Now().Add(-2 * time.Hour))
	good := testChannel(time.Now().Add(-2 * time.Hour))
	good.ID = 2
	good.YoutubeID = "UC-good-channel-000000"

	mock.ExpectQuery(`SELECT \* FROM channels WHERE id = \$1`).WithArgs(bad.ID).WillReturnRows(channelRows(bad))

	mock.ExpectQuery(`SELECT \* FROM channels WHERE id = \$1`).WithArgs(good.ID).WillReturnRows(channelRows(good))
	mock.ExpectExec(`UPDATE channels\s+SET title`).
		WithArgs(good.ID, good.Title, good.LogoURL, good.Description, good.UploadsPlaylistID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE channels SET last_synced = NOW\(\)`).WithArgs(good.ID).WillReturnResult(sqlmock.NewResult(0, 1))

	badAPI := &stubAPI{channelErr: &youtube.FetchError{Op: "/channels", Err: errors.New("rate limited")}}
	s := New(badAPI, time.Hour, 20)

	_, err := s.Sync(context.Background(), bad.ID, false)
	assert.Error(t, err)

	// The second channel syncs with a healthy upstream.
	goodAPI := &stubAPI{channelInfo: testInfo(good)}
	s2 := New(goodAPI, time.Hour, 20)

	result, err := s2.Sync(context.Background(), good.ID, false)
	assert.NoError(t, err)
	assert.Equal(t, Unchanged, result)

	assert.NoError(t, mock.ExpectationsWereMet())
}
