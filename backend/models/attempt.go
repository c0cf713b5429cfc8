package models

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizType string

const (
	QuizTypeTopic  QuizType = "topic"
	QuizTypeRandom QuizType = "random"
)

func (q QuizType) Valid() bool {
	return q == QuizTypeTopic || q == QuizTypeRandom
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// DefaultTopic is used when an attempt is saved without a topic.
const DefaultTopic = "random"

// Attempt is one completed quiz session. Attempts are append-only.
type Attempt struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     string        `gorm:"size:64;not null;index:idx_attempt_owner_completed,priority:1" json:"ownerId"`
	Topic       string        `gorm:"size:255;not null;index" json:"topic"`
	QuizType    QuizType      `gorm:"size:16;not null" json:"quizType"`
	Score       int           `gorm:"not null" json:"score"`
	Total       int           `gorm:"not null" json:"total"`
	DurationSec int           `gorm:"not null" json:"durationSec"`
	StartedAt   *time.Time    `json:"startedAt,omitempty"`
	CompletedAt time.Time     `gorm:"not null;index:idx_attempt_owner_completed,priority:2" json:"completedAt"`
	Items       []AttemptItem `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (Attempt) TableName() string {
	return "quiz_attempts"
}

func (a *Attempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Percent is derived on every read and never persisted.
func (a Attempt) Percent() int {
	return Percent(a.Score, a.Total)
}

// MarshalJSON adds percent, and mirrors id as _id for clients that still read
// the document-store key.
func (a Attempt) MarshalJSON() ([]byte, error) {
	type attemptJSON Attempt
	out := struct {
		attemptJSON
		LegacyID uuid.UUID `json:"_id"`
		Percent  int       `json:"percent"`
	}{attemptJSON: attemptJSON(a), LegacyID: a.ID, Percent: a.Percent()}
	if out.Items == nil {
		out.Items = []AttemptItem{}
	}
	return json.Marshal(out)
}

// Percent returns round(score/total*100), or 0 when total is not positive.
func Percent(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// AttemptItem is a single answered question inside an attempt. Position keeps
// question order.
type AttemptItem struct {
	ID            uint                        `gorm:"primaryKey" json:"-"`
	AttemptID     uuid.UUID                   `gorm:"type:uuid;not null;index" json:"-"`
	Position      int                         `gorm:"not null" json:"-"`
	QuestionID    string                      `gorm:"size:128" json:"questionId,omitempty"`
	QuestionText  string                      `gorm:"type:text" json:"questionText"`
	Choices       datatypes.JSONSlice[string] `json:"choices,omitempty"`
	CorrectAnswer string                      `gorm:"type:text" json:"correctAnswer"`
	UserAnswer    string                      `gorm:"type:text" json:"userAnswer"`
	IsCorrect     bool                        `json:"isCorrect"`
	Difficulty    Difficulty                  `gorm:"size:8;not null" json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Explanation   string                      `gorm:"type:text" json:"explanation,omitempty"`
}

func (AttemptItem) TableName() string {
	return "quiz_attempt_items"
}

// NewAttempt is the caller-supplied part of an attempt. CompletedAt is never
// taken from the caller.
type NewAttempt struct {
	Topic       string
	QuizType    QuizType `validate:"omitempty,oneof=topic random"`
	Score       int      `validate:"min=0"`
	Total       int      `validate:"min=0"`
	DurationSec int      `validate:"min=0"`
	StartedAt   *time.Time
	Items       []AttemptItem `validate:"dive"`
}
