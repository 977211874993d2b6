// Package daemon provides the long-running reminder scheduler service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/subwatch/internal/logx"
	"github.com/theirongolddev/subwatch/internal/notify"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Schedule   Schedule
	Addr       string
	RunTimeout time.Duration
	RunsBuffer int
}

// Runner executes one notification cycle.
type Runner interface {
	Run(ctx context.Context) (*notify.Result, error)
}

// Run records the outcome of one scheduled cycle.
type Run struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	DurationMS    int64     `json:"duration_ms"`
	Subscriptions int       `json:"subscriptions"`
	Overdue       int       `json:"overdue"`
	DueToday      int       `json:"due_today"`
	DueSoon       int       `json:"due_soon"`
	Blocks        int       `json:"blocks"`
	Sent          int       `json:"sent"`
	SendSkipped   bool      `json:"send_skipped,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt   time.Time `json:"started_at"`
	Schedule    string    `json:"schedule"`
	NextRunAt   time.Time `json:"next_run_at"`
	LastRunAt   time.Time `json:"last_run_at"`
	RunCount    int64     `json:"run_count"`
	Running     bool      `json:"running"`
	LastError   string    `json:"last_error,omitempty"`
	LastRun     *Run      `json:"last_run,omitempty"`
	RunsKept    int       `json:"runs_kept"`
	Subscribers int       `json:"subscribers"`
}

// Service drives scheduled notification runs and serves the status API.
type Service struct {
	cfg    Config
	runner Runner
	log    logx.Logger

	mu        sync.RWMutex
	startedAt time.Time
	nextRunAt time.Time
	lastRunAt time.Time
	runCount  int64
	lastError string
	running   bool
	runs      []Run

	nextSubID int
	subs      map[int]chan Run
}

// New returns a daemon service firing runner on cfg.Schedule.
func New(cfg Config, runner Runner, log logx.Logger) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:7980"
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 5 * time.Minute
	}
	if cfg.RunsBuffer < 1 {
		cfg.RunsBuffer = 50
	}

	return &Service{
		cfg:       cfg,
		runner:    runner,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Run),
	}
}

// Run serves HTTP endpoints and fires scheduled runs until ctx is
// canceled. The first run waits for the first schedule fire; a daemon
// restarted at noon with a 9am schedule stays quiet until 9am.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Schedule.IsZero() {
		return errors.New("daemon schedule not set")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/runs", s.handleRuns)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	next := s.cfg.Schedule.Next(time.Now())
	s.setNextRun(next)
	s.log.Info("daemon started",
		logx.String("addr", s.cfg.Addr),
		logx.String("schedule", s.cfg.Schedule.String()),
		logx.Time("next_run", next),
	)

	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-timer.C:
			s.triggerRun(ctx)
			next = s.cfg.Schedule.Next(time.Now())
			s.setNextRun(next)
			timer.Reset(time.Until(next))
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// triggerRun starts one run in the background unless the previous run
// is still in flight, in which case this fire is skipped.
func (s *Service) triggerRun(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn("previous run still in flight, skipping this fire")
		return
	}
	s.running = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()
		s.runOnce(ctx)
	}()
}

func (s *Service) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	id := uuid.NewString()
	started := time.Now()
	s.log.Info("run started", logx.String("run_id", id))

	res, err := s.runner.Run(runCtx)
	run := runFromResult(id, started, res, err)

	s.mu.Lock()
	s.lastRunAt = started
	s.runCount++
	s.lastError = run.Error
	s.mu.Unlock()

	s.recordRun(run)

	if err != nil {
		s.log.Error("run failed", logx.String("run_id", id), logx.Err(err))
		return
	}
	s.log.Info("run complete",
		logx.String("run_id", id),
		logx.Int("subscriptions", run.Subscriptions),
		logx.Int("blocks", run.Blocks),
		logx.Int("sent", run.Sent),
	)
}

func runFromResult(id string, started time.Time, res *notify.Result, err error) Run {
	run := Run{
		ID:         id,
		StartedAt:  started,
		DurationMS: time.Since(started).Milliseconds(),
	}
	if res != nil {
		run.DurationMS = res.Duration.Milliseconds()
		run.Subscriptions = res.Subscriptions
		run.Overdue = res.Overdue
		run.DueToday = res.DueToday
		run.DueSoon = res.DueSoon
		run.Blocks = len(res.Blocks)
		run.Sent = res.Sent
		run.SendSkipped = res.SendSkipped
	}
	if err != nil {
		run.Error = err.Error()
	}
	return run
}

// recordRun appends to the run ring buffer and notifies subscribers.
func (s *Service) recordRun(run Run) {
	s.mu.Lock()
	s.runs = append(s.runs, run)
	if len(s.runs) > s.cfg.RunsBuffer {
		s.runs = s.runs[len(s.runs)-s.cfg.RunsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- run:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) setNextRun(t time.Time) {
	s.mu.Lock()
	s.nextRunAt = t
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt:   s.startedAt,
		Schedule:    s.cfg.Schedule.String(),
		NextRunAt:   s.nextRunAt,
		LastRunAt:   s.lastRunAt,
		RunCount:    s.runCount,
		Running:     s.running,
		LastError:   s.lastError,
		RunsKept:    len(s.runs),
		Subscribers: len(s.subs),
	}
	if n := len(s.runs); n > 0 {
		last := s.runs[n-1]
		st.LastRun = &last
	}
	return st
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleRuns(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	runs := make([]Run, len(s.runs))
	copy(runs, s.runs)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(runs)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Run, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Replay the most recent run so a fresh subscriber sees state
	// immediately.
	if st := s.snapshotStatus(); st.LastRun != nil {
		writeSSE(w, *st.LastRun)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case run := <-ch:
			writeSSE(w, run)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, run Run) {
	data, err := json.Marshal(run)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: run\n")
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Run) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
