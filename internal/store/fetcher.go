package store

import (
	"context"
	"time"

	"github.com/theirongolddev/subwatch/internal/logx"
	"github.com/theirongolddev/subwatch/internal/model"
)

// Fetcher matches any source of subscription rows.
type Fetcher interface {
	FetchSubscriptions(ctx context.Context) ([]model.Subscription, error)
}

// CachingFetcher passes fetches through to an inner source and records
// each successful result as the latest snapshot. A failed save is
// logged and swallowed; the fetch result still flows to the caller.
type CachingFetcher struct {
	inner Fetcher
	cache *Cache
	log   logx.Logger
}

// NewCachingFetcher wraps inner so every successful fetch refreshes
// the snapshot cache.
func NewCachingFetcher(inner Fetcher, cache *Cache, log logx.Logger) *CachingFetcher {
	return &CachingFetcher{inner: inner, cache: cache, log: log}
}

func (f *CachingFetcher) FetchSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	subs, err := f.inner.FetchSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	if f.cache != nil {
		if saveErr := f.cache.SaveSnapshot(time.Now(), subs); saveErr != nil {
			f.log.Warn("snapshot save failed", logx.Err(saveErr))
		}
	}
	return subs, nil
}
