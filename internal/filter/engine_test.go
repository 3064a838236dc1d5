package filter

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"yrss/internal/models"
	"yrss/internal/test"
)

func filterRows(filters ...models.Filter) *sqlmock.Rows {
	r := sqlmock.NewRows([]string{"id", "subscriber_id", "channel_id", "pattern", "whitelist", "created_at"})
	for _, f := range filters {
		r.AddRow(f.ID, f.SubscriberID, f.ChannelID, f.Pattern, f.Whitelist, f.CreatedAt)
	}
	return r
}

func TestWhitelistFilterExcludesNonMatches(t *testing.T) {
	_, mock := test.NewMockDB(t)
	mock.ExpectQuery(`FROM filters`).WithArgs(int64(1), int64(2)).
		WillReturnRows(filterRows(models.Filter{ID: 10, SubscriberID: 1, ChannelID: 2, Pattern: "cats", Whitelist: true, CreatedAt: time.Now()}))

	e := NewEngine(time.Minute)

	excluded, err := e.IsExcluded(1, 2, "Dogs")
	assert.NoError(t, err)
	assert.True(t, excluded)

	// Cached: "Cats playing" matches the whitelist and survives, with no
	// second query.
	excluded, err = e.IsExcluded(1, 2, "Cats playing")
	assert.NoError(t, err)
	assert.False(t, excluded)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlacklistFilterExcludesMatches(t *testing.T) {
	_, mock := test.NewMockDB(t)
	mock.ExpectQuery(`FROM filters`).WithArgs(int64(1), int64(2)).
		WillReturnRows(filterRows(models.Filter{ID: 10, SubscriberID: 1, ChannelID: 2, Pattern: "cats", CreatedAt: time.Now()}))

	e := NewEngine(time.Minute)

	excluded, err := e.IsExcluded(1, 2, "Cats playing")
	assert.NoError(t, err)
	assert.True(t, excluded)

	excluded, err = e.IsExcluded(1, 2, "Dogs")
	assert.NoError(t, err)
	assert.False(t, excluded)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoFiltersExcludesNothing(t *testing.T) {
	_, mock := test.NewMockDB(t)
	mock.ExpectQuery(`FROM filters`).WithArgs(int64(1), int64(2)).WillReturnRows(filterRows())

	e := NewEngine(time.Minute)

	excluded, err := e.IsExcluded(1, 2, "Anything at all")
	assert.NoError(t, err)
	assert.False(t, excluded)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchingIsCaseInsensitive(t *testing.T) {
	_, mock := test.NewMockDB(t)
	mock.ExpectQuery(`FROM filters`).WithArgs(int64(1), int64(2)).
		WillReturnRows(filterRows(models.Filter{ID: 10, SubscriberID: 1, ChannelID: 2, Pattern: "CATS", CreatedAt: time.Now()}))

	e := NewEngine(time.Minute)

	excluded, err := e.IsExcluded(1, 2, "cats compilation")
	assert.NoError(t, err)
	assert.True(t, excluded)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheExpiryHitsStoreAgain(t *testing.T) {
	_, mock := test.NewMockDB(t)
	mock.ExpectQuery(`FROM filters`).WithArgs(int64(1), int64(2)).WillReturnRows(filterRows())
	mock.ExpectQuery(`FROM filters`).WithArgs(int64(1), int64(2)).WillReturnRows(filterRows())

	e := NewEngine(time.Nanosecond)

	_, err := e.IsExcluded(1, 2, "first")
	assert.NoError(t, err)

	time.Sleep(time.Millisecond)

	_, err = e.IsExcluded(1, 2, "second")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidatePattern(t *testing.T) {
	assert.NoError(t, ValidatePattern("cats|dogs"))

	err := ValidatePattern("[unclosed")
	assert.Error(t, err)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "[unclosed", verr.Pattern)
}
