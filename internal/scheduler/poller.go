// Package scheduler runs the background task that publishes due
// scheduled posts. It is the only caller of AutoPublish and the only
// actor that originates transitions without a human behind them.
package scheduler

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/technews/technews-backend/internal/common"
	"github.com/technews/technews-backend/internal/domain"
	pkglogger "github.com/technews/technews-backend/pkg/logger"
)

// DefaultInterval is the poll period when none is configured
const DefaultInterval = time.Minute

var (
	autoPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workflow_auto_published_total",
		Help: "Number of posts published by the scheduler",
	})

	autoPublishErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_auto_publish_errors_total",
		Help: "Per-post auto-publish failures by kind",
	}, []string{"kind"})
)

// DuePostSource lists scheduled posts whose publish time has passed
type DuePostSource interface {
	FindScheduledDue(now time.Time) ([]domain.Post, error)
}

// AutoPublisher drives one post through the auto-publish transition
type AutoPublisher interface {
	AutoPublish(postID uint) (domain.PostStatus, error)
}

// Poller periodically publishes due scheduled posts. One goroutine, one
// ticker; items within a tick are processed sequentially so a failure on
// one never hides the rest of the batch.
type Poller struct {
	posts    DuePostSource
	service  AutoPublisher
	interval time.Duration
	log      zerolog.Logger
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewPoller creates a poller. interval <= 0 falls back to DefaultInterval.
func NewPoller(posts DuePostSource, service AutoPublisher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		posts:    posts,
		service:  service,
		interval: interval,
		log:      pkglogger.WithComponent("scheduled-publish"),
		stop:     make(chan struct{}),
	}
}

// Start launches the background loop. The loop survives every per-tick
// error and exits only via Stop.
func (p *Poller) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-p.stop:
				return
			case now := <-ticker.C:
				p.tick(now)
			}
		}
	}()
	p.log.Info().Dur("interval", p.interval).Msg("scheduled-publish poller started")
}

// Stop signals shutdown and waits for the loop to exit
func (p *Poller) Stop() {
	close(p.stop)
	p.wg.Wait()
	p.log.Info().Msg("scheduled-publish poller stopped")
}

// tick publishes every due post, independently. A concurrent manual
// transition shows up as a version conflict or an invalid transition; the
// post simply no longer matches the scheduled query on the next tick.
func (p *Poller) tick(now time.Time) {
	due, err := p.posts.FindScheduledDue(now)
	if err != nil {
		p.log.Error().Err(err).Msg("scheduled-due query failed, retrying next tick")
		return
	}
	if len(due) == 0 {
		return
	}

	p.log.Info().Int("count", len(due)).Msg("publishing due posts")
	for i := range due {
		post := &due[i]

		select {
		case <-p.stop:
			return
		default:
		}

		if _, err := p.service.AutoPublish(post.ID); err != nil {
			autoPublishErrors.WithLabelValues(errorKind(err)).Inc()
			p.log.Warn().
				Err(err).
				Uint("post_id", post.ID).
				Str("title", post.Title).
				Msg("auto-publish skipped")
			continue
		}

		autoPublishedTotal.Inc()
		p.log.Info().
			Uint("post_id", post.ID).
			Str("title", post.Title).
			Msg("auto-published post")
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, common.ErrVersionConflict):
		return "version_conflict"
	case errors.Is(err, common.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, common.ErrNotFound):
		return "not_found"
	case errors.Is(err, common.ErrValidation):
		return "validation"
	default:
		return "repository"
	}
}
