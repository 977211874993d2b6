package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/theirongolddev/subwatch/internal/logx"
	"github.com/theirongolddev/subwatch/internal/model"
	"github.com/theirongolddev/subwatch/internal/pipeline"
)

// Fetcher supplies the current subscription rows.
type Fetcher interface {
	FetchSubscriptions(ctx context.Context) ([]model.Subscription, error)
}

// Pusher delivers one rendered block as a push message.
type Pusher interface {
	Push(ctx context.Context, message string) error
}

// Runner executes one notification run: fetch, filter, render, print,
// dispatch. A nil Pusher disables dispatch but never rendering or
// printing.
type Runner struct {
	fetcher Fetcher
	pusher  Pusher
	out     io.Writer
	log     logx.Logger
}

// NewRunner wires a runner. out receives every rendered block; pass
// io.Discard to silence it (the daemon does).
func NewRunner(fetcher Fetcher, pusher Pusher, out io.Writer, log logx.Logger) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{fetcher: fetcher, pusher: pusher, out: out, log: log}
}

// Result summarizes one run. It is valid even when Run also returns an
// error, as long as the fetch itself succeeded.
type Result struct {
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
	Subscriptions int           `json:"subscriptions"`
	Overdue       int           `json:"overdue"`
	DueToday      int           `json:"due_today"`
	DueSoon       int           `json:"due_soon"`
	Blocks        []Block       `json:"blocks,omitempty"`
	Sent          int           `json:"sent"`
	SendSkipped   bool          `json:"send_skipped"`
}

// Run performs one notification cycle. A fetch error aborts the run
// with a nil Result. Dispatch errors do not stop later sends; they
// come back joined so no failure is swallowed and no category can
// suppress another.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	subs, err := r.fetcher.FetchSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching subscriptions: %w", err)
	}

	digest := pipeline.BuildDigest(subs)
	blocks := RenderDigest(digest)

	res := &Result{
		StartedAt:     start,
		Subscriptions: len(subs),
		Overdue:       len(digest.Overdue),
		DueToday:      len(digest.DueToday),
		DueSoon:       len(digest.DueSoon),
		Blocks:        blocks,
	}

	r.log.Info("run fetched",
		logx.Int("subscriptions", res.Subscriptions),
		logx.Int("overdue", res.Overdue),
		logx.Int("due_today", res.DueToday),
		logx.Int("due_soon", res.DueSoon),
	)

	// Every block always reaches the visible output, credentials or not.
	for _, b := range blocks {
		fmt.Fprintln(r.out, b.Text)
	}

	if r.pusher == nil {
		res.SendSkipped = len(blocks) > 0
		res.Duration = time.Since(start)
		if res.SendSkipped {
			r.log.Warn("push credentials missing, messages not sent",
				logx.Int("blocks", len(blocks)))
		}
		return res, nil
	}

	var errs []error
	for _, b := range blocks {
		if err := r.pusher.Push(ctx, b.Text); err != nil {
			errs = append(errs, fmt.Errorf("dispatching %s: %w", b.Category, err))
			r.log.Error("push failed", logx.String("category", string(b.Category)), logx.Err(err))
			continue
		}
		res.Sent++
		r.log.Info("push sent",
			logx.String("category", string(b.Category)),
			logx.Int("items", b.Count))
	}

	res.Duration = time.Since(start)
	return res, errors.Join(errs...)
}
