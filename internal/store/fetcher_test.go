package store

import (
	"context"
	"errors"
	"testing"

	"github.com/theirongolddev/subwatch/internal/logx"
	"github.com/theirongolddev/subwatch/internal/model"
)

type stubFetcher struct {
	subs []model.Subscription
	err  error
}

func (f *stubFetcher) FetchSubscriptions(_ context.Context) ([]model.Subscription, error) {
	return f.subs, f.err
}

func TestCachingFetcher_SavesOnSuccess(t *testing.T) {
	c := openTestCache(t)

	name := "Netflix"
	inner := &stubFetcher{subs: []model.Subscription{{Name: &name}}}
	f := NewCachingFetcher(inner, c, logx.Nop())

	subs, err := f.FetchSubscriptions(context.Background())
	if err != nil {
		t.Fatalf("FetchSubscriptions error: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("subs = %d, want 1", len(subs))
	}

	snap, err := c.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest error: %v", err)
	}
	if snap == nil || len(snap.Subscriptions) != 1 {
		t.Fatalf("snapshot not recorded: %+v", snap)
	}
	if *snap.Subscriptions[0].Name != "Netflix" {
		t.Errorf("cached Name = %q, want Netflix", *snap.Subscriptions[0].Name)
	}
}

func TestCachingFetcher_ErrorSkipsSave(t *testing.T) {
	c := openTestCache(t)

	inner := &stubFetcher{err: errors.New("boom")}
	f := NewCachingFetcher(inner, c, logx.Nop())

	if _, err := f.FetchSubscriptions(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}

	snap, err := c.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest error: %v", err)
	}
	if snap != nil {
		t.Errorf("snapshot recorded after failed fetch: %+v", snap)
	}
}

func TestCachingFetcher_NilCachePassesThrough(t *testing.T) {
	name := "Spotify"
	inner := &stubFetcher{subs: []model.Subscription{{Name: &name}}}
	f := NewCachingFetcher(inner, nil, logx.Nop())

	subs, err := f.FetchSubscriptions(context.Background())
	if err != nil {
		t.Fatalf("FetchSubscriptions error: %v", err)
	}
	if len(subs) != 1 || *subs[0].Name != "Spotify" {
		t.Errorf("subs = %+v, want the inner result", subs)
	}
}
