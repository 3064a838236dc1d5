// Package filter compiles and evaluates per-subscriber title filters.
package filter

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"yrss/internal/db"
)

const (
	// DefaultTTL bounds how long compiled rules are reused before the
	// store is consulted again. A feed render evaluates many videos per
	// (subscriber, channel) pair; seconds of staleness is acceptable,
	// recompiling per video is not.
	DefaultTTL = 10 * time.Second

	maxCacheEntries = 1024
)

// ValidationError reports a filter pattern that does not compile. It is
// raised at filter-creation time only; stored patterns are always valid.
type ValidationError struct {
	Pattern string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid filter pattern %q: %v", e.Pattern, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidatePattern compiles pattern exactly the way the engine will at
// evaluation time. Call it before persisting a filter.
func ValidatePattern(pattern string) error {
	if _, err := compile(pattern); err != nil {
		return &ValidationError{Pattern: pattern, Err: err}
	}
	return nil
}

// Filters match case-insensitively, as the original title filters did.
func compile(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}

type rule struct {
	re        *regexp.Regexp
	whitelist bool
}

type cacheKey struct {
	subscriberID int64
	channelID    int64
}

type cacheEntry struct {
	rules   []rule
	expires time.Time
}

// Engine evaluates a subscriber's filters against video titles. Compiled
// rules are held in an explicit bounded map keyed by (subscriber, channel)
// with a per-entry expiry, evicted lazily on insert.
type Engine struct {
	ttl time.Duration

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry
}

func NewEngine(ttl time.Duration) *Engine {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Engine{
		ttl:   ttl,
		cache: make(map[cacheKey]cacheEntry),
	}
}

// IsExcluded reports whether the subscriber's filters for this channel drop
// a video with the given title. A whitelist filter excludes on no match, a
// blacklist filter excludes on match; the first filter that triggers wins.
// With no filters nothing is excluded.
func (e *Engine) IsExcluded(subscriberID, channelID int64, title string) (bool, error) {
	rules, err := e.rulesFor(subscriberID, channelID)
	if err != nil {
		return false, err
	}

	for _, r := range rules {
		matched := r.re.MatchString(title)
		if !matched && r.whitelist {
			return true, nil
		}
		if matched && !r.whitelist {
			return true, nil
		}
	}
	return false, nil
}

func (e *Engine) rulesFor(subscriberID, channelID int64) ([]rule, error) {
	key := cacheKey{subscriberID: subscriberID, channelID: channelID}
	now := time.Now()

	e.mu.Lock()
	if entry, ok := e.cache[key]; ok && now.Before(entry.expires) {
		e.mu.Unlock()
		return entry.rules, nil
	}
	e.mu.Unlock()

	filters, err := db.GetFiltersForChannel(subscriberID, channelID)
	if err != nil {
		return nil, err
	}

	rules := make([]rule, 0, len(filters))
	for _, f := range filters {
		re, err := compile(f.Pattern)
		if err != nil {
			// Stored patterns were compile-checked at creation time; a
			// failure here means the store was written around the API.
			return nil, &ValidationError{Pattern: f.Pattern, Err: err}
		}
		rules = append(rules, rule{re: re, whitelist: f.Whitelist})
	}

	e.mu.Lock()
	e.evictLocked(now)
	e.cache[key] = cacheEntry{rules: rules, expires: now.Add(e.ttl)}
	e.mu.Unlock()

	return rules, nil
}

// evictLocked keeps the cache bounded: expired entries go first, arbitrary
// ones only if the cache is still full.
func (e *Engine) evictLocked(now time.Time) {
	if len(e.cache) < maxCacheEntries {
		return
	}
	for k, v := range e.cache {
		if now.After(v.expires) {
			delete(e.cache, k)
		}
	}
	for k := range e.cache {
		if len(e.cache) < maxCacheEntries {
			break
		}
		delete(e.cache, k)
	}
}
