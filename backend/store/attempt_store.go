// Package store persists quiz attempts. Every read is scoped to an owner.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"quizpractice/backend/apperrors"
	"quizpractice/backend/models"
	"quizpractice/backend/query"
	"quizpractice/backend/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Page is one page of a filtered listing. Total counts every match,
// ignoring pagination.
type Page struct {
	Items []models.Attempt
	Total int64
}

type AttemptStore struct {
	db  *gorm.DB
	log *utils.Logger
	now func() time.Time
}

type Option func(*AttemptStore)

// WithClock overrides the time source used for completedAt.
func WithClock(now func() time.Time) Option {
	return func(s *AttemptStore) { s.now = now }
}

func NewAttemptStore(db *gorm.DB, baseLog *utils.Logger, opts ...Option) *AttemptStore {
	s := &AttemptStore{
		db:  db,
		log: baseLog.With("store", "AttemptStore"),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create writes the attempt and its items in one transaction. CompletedAt is
// always the insertion time.
func (s *AttemptStore) Create(ctx context.Context, ownerID string, in models.NewAttempt) (*models.Attempt, error) {
	if ownerID == "" {
		return nil, apperrors.NewValidationError("ownerId", "is required")
	}
	if err := utils.Validate(in); err != nil {
		return nil, err
	}

	attempt := &models.Attempt{
		OwnerID:     ownerID,
		Topic:       strings.TrimSpace(in.Topic),
		QuizType:    in.QuizType,
		Score:       in.Score,
		Total:       in.Total,
		DurationSec: in.DurationSec,
		CompletedAt: s.now().UTC(),
		Items:       make([]models.AttemptItem, len(in.Items)),
	}
	if attempt.Topic == "" {
		attempt.Topic = models.DefaultTopic
	}
	if attempt.QuizType == "" {
		attempt.QuizType = models.QuizTypeTopic
	}
	if in.StartedAt != nil {
		startedAt := in.StartedAt.UTC()
		attempt.StartedAt = &startedAt
	}
	for i, item := range in.Items {
		item.ID = 0
		item.Position = i
		if item.Difficulty == "" {
			item.Difficulty = models.DifficultyMedium
		}
		attempt.Items[i] = item
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(attempt).Error
	})
	if err != nil {
		s.log.Error("create attempt failed", "owner_id", ownerID, "error", err)
		return nil, apperrors.WrapStore("create attempt", err)
	}

	s.log.Debug("attempt created", "owner_id", ownerID, "attempt_id", attempt.ID, "items", len(attempt.Items))
	return attempt, nil
}

// GetByID returns apperrors.ErrNotFound when the id is malformed, unknown or
// owned by someone else.
func (s *AttemptStore) GetByID(ctx context.Context, ownerID, attemptID string) (*models.Attempt, error) {
	id, err := uuid.Parse(attemptID)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}

	var attempt models.Attempt
	err = s.db.WithContext(ctx).
		Preload("Items", orderItems).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.WrapStore("get attempt", err)
	}
	return &attempt, nil
}

// List returns the requested page together with the unpaginated match count.
// The two reads run concurrently. A non-positive Limit means no limit; an
// empty Sort means newest first. A negative Offset is a ValidationError.
func (s *AttemptStore) List(ctx context.Context, ownerID string, f query.CanonicalFilter) (*Page, error) {
	if f.Offset < 0 {
		return nil, apperrors.NewValidationError("offset", "must not be negative")
	}
	if len(f.Sort) == 0 {
		f.Sort = []query.SortField{{Column: "completed_at", Desc: true}, {Column: "id"}}
	}
	if f.Limit <= 0 {
		f.Limit = -1
	}
	scope := filterScope(ownerID, f)
	page := &Page{Items: []models.Attempt{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Scopes(scope).
			Preload("Items", orderItems).
			Order(f.OrderClause()).
			Offset(f.Offset).
			Limit(f.Limit).
			Find(&page.Items).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Model(&models.Attempt{}).
			Scopes(scope).
			Count(&page.Total).Error
	})
	if err := g.Wait(); err != nil {
		s.log.Error("list attempts failed", "owner_id", ownerID, "error", err)
		return nil, apperrors.WrapStore("list attempts", err)
	}
	return page, nil
}

func (s *AttemptStore) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Attempt{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.WrapStore("count attempts", err)
	}
	return count, nil
}

// CountByOwnerSince counts attempts completed at or after since.
func (s *AttemptStore) CountByOwnerSince(ctx context.Context, ownerID string, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Attempt{}).
		Where("owner_id = ? AND completed_at >= ?", ownerID, since.UTC()).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.WrapStore("count recent attempts", err)
	}
	return count, nil
}

// GroupByTopic returns attempt count and mean percent per topic, most
// attempted first, ties by topic name. Attempts with total 0 count as 0%.
func (s *AttemptStore) GroupByTopic(ctx context.Context, ownerID string) ([]models.TopicAggregate, error) {
	rows := []models.TopicAggregate{}
	err := s.db.WithContext(ctx).
		Model(&models.Attempt{}).
		Select("topic, COUNT(*) AS attempts, " +
			"AVG(CASE WHEN total > 0 THEN score * 100.0 / total ELSE 0 END) AS avg_percent").
		Where("owner_id = ?", ownerID).
		Group("topic").
		Order("attempts DESC, topic ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapStore("group attempts by topic", err)
	}
	return rows, nil
}

func filterScope(ownerID string, f query.CanonicalFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("owner_id = ?", ownerID)
		if f.Topic != "" {
			db = db.Where("topic = ?", f.Topic)
		}
		if f.QuizType != "" {
			db = db.Where("quiz_type = ?", f.QuizType)
		}
		return db
	}
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
