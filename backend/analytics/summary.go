// Package analytics derives summary statistics from stored attempts.
package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"quizpractice/backend/models"
	"quizpractice/backend/utils"

	"golang.org/x/sync/errgroup"
)

// RecentWindow is the span counted by AttemptsLast7Days.
const RecentWindow = 7 * 24 * time.Hour

// AttemptStats is the read side of the attempt store used for summaries.
type AttemptStats interface {
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	CountByOwnerSince(ctx context.Context, ownerID string, since time.Time) (int64, error)
	GroupByTopic(ctx context.Context, ownerID string) ([]models.TopicAggregate, error)
}

type Summarizer struct {
	stats AttemptStats
	log   *utils.Logger
	now   func() time.Time
}

func NewSummarizer(stats AttemptStats, baseLog *utils.Logger) *Summarizer {
	return &Summarizer{
		stats: stats,
		log:   baseLog.With("component", "Summarizer"),
		now:   time.Now,
	}
}

// WithClock returns a copy of s that reads the current time from now.
func (s *Summarizer) WithClock(now func() time.Time) *Summarizer {
	cp := *s
	cp.now = now
	return &cp
}

// Summarize runs the three sub-queries concurrently and combines them once
// all have finished. Any failure fails the whole summary.
func (s *Summarizer) Summarize(ctx context.Context, ownerID string) (*models.Summary, error) {
	var (
		total   int64
		recent  int64
		byTopic []models.TopicAggregate
	)
	since := s.now().Add(-RecentWindow)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.stats.CountByOwner(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.stats.CountByOwnerSince(gctx, ownerID, since)
		return err
	})
	g.Go(func() error {
		var err error
		byTopic, err = s.stats.GroupByTopic(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("summary failed", "owner_id", ownerID, "error", err)
		return nil, err
	}

	return &models.Summary{
		TotalAttempts:     total,
		AttemptsLast7Days: recent,
		ByTopic:           presentTopics(byTopic),
	}, nil
}

// presentTopics orders by attempts descending then topic ascending and rounds
// the averages.
func presentTopics(rows []models.TopicAggregate) []models.TopicSummary {
	out := make([]models.TopicSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.TopicSummary{
			Topic:      r.Topic,
			Attempts:   r.Attempts,
			AvgPercent: int(math.Round(r.AvgPercent)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Attempts != out[j].Attempts {
			return out[i].Attempts > out[j].Attempts
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}
