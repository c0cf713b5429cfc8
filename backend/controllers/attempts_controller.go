package controllers

import (
	"errors"

	"quizpractice/backend/analytics"
	"quizpractice/backend/apperrors"
	"quizpractice/backend/config"
	"quizpractice/backend/middleware"
	"quizpractice/backend/models"
	"quizpractice/backend/query"
	"quizpractice/backend/store"
	"quizpractice/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AttemptsController struct {
	Store      *store.AttemptStore
	Summarizer *analytics.Summarizer
	Cfg        *config.Config
	Log        *utils.Logger
}

func NewAttemptsController(db *gorm.DB, cfg *config.Config, logger *utils.Logger) *AttemptsController {
	attempts := store.NewAttemptStore(db, logger)
	return &AttemptsController{
		Store:      attempts,
		Summarizer: analytics.NewSummarizer(attempts, logger),
		Cfg:        cfg,
		Log:        logger.With("controller", "AttemptsController"),
	}
}

type attemptItemInput struct {
	QuestionID    string   `json:"questionId"`
	QuestionText  string   `json:"questionText"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correctAnswer"`
	UserAnswer    string   `json:"userAnswer"`
	IsCorrect     bool     `json:"isCorrect"`
	Difficulty    string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Explanation   string   `json:"explanation"`
}

// createAttemptInput uses pointers so a missing score or total can be told
// apart from zero. Non-numeric values fail JSON decoding.
type createAttemptInput struct {
	Topic       string             `json:"topic"`
	QuizType    string             `json:"quizType" validate:"omitempty,oneof=topic random"`
	Score       *int               `json:"score" validate:"required,min=0"`
	Total       *int               `json:"total" validate:"required,min=0"`
	DurationSec *int               `json:"durationSec" validate:"omitempty,min=0"`
	StartedAt   *timestamp         `json:"startedAt"`
	CompletedAt *timestamp         `json:"completedAt"` // accepted, ignored
	Items       []attemptItemInput `json:"items" validate:"dive"`
}

func (in createAttemptInput) toNewAttempt() models.NewAttempt {
	out := models.NewAttempt{
		Topic:    in.Topic,
		QuizType: models.QuizType(in.QuizType),
		Score:    *in.Score,
		Total:    *in.Total,
		Items:    make([]models.AttemptItem, 0, len(in.Items)),
	}
	if in.StartedAt != nil {
		startedAt := in.StartedAt.Time
		out.StartedAt = &startedAt
	}
	if in.DurationSec != nil {
		out.DurationSec = *in.DurationSec
	}
	for _, it := range in.Items {
		out.Items = append(out.Items, models.AttemptItem{
			QuestionID:    it.QuestionID,
			QuestionText:  it.QuestionText,
			Choices:       it.Choices,
			CorrectAnswer: it.CorrectAnswer,
			UserAnswer:    it.UserAnswer,
			IsCorrect:     it.IsCorrect,
			Difficulty:    models.Difficulty(it.Difficulty),
			Explanation:   it.Explanation,
		})
	}
	return out
}

// CreateAttempt godoc
// @Summary Save a completed quiz attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Success 201 {object} models.Attempt
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /attempts [post]
func (ac *AttemptsController) CreateAttempt(c *fiber.Ctx) error {
	ownerID := middleware.OwnerID(c)

	var input createAttemptInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "score and total are required numbers")
	}
	if err := utils.Validate(input); err != nil {
		return ac.fail(c, err)
	}

	attempt, err := ac.Store.Create(c.UserContext(), ownerID, input.toNewAttempt())
	if err != nil {
		return ac.fail(c, err)
	}
	return utils.Created(c, attempt)
}

// ListAttempts godoc
// @Summary List the caller's attempts
// @Tags attempts
// @Produce json
// @Param topic query string false "topic or all"
// @Param quizType query string false "topic, random or all"
// @Param page query int false "page, default 1"
// @Param limit query int false "page size, default 10"
// @Param sort query string false "sort spec, default -completedAt"
// @Success 200 {object} utils.PaginatedResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /attempts [get]
func (ac *AttemptsController) ListAttempts(c *fiber.Ctx) error {
	ownerID := middleware.OwnerID(c)

	filter, err := query.Normalize(query.RawQuery{
		Topic:    c.Query("topic"),
		QuizType: c.Query("quizType"),
		Page:     c.Query("page"),
		Limit:    c.Query("limit"),
		Sort:     c.Query("sort"),
	}, query.Limits{DefaultLimit: ac.Cfg.DefaultPageSize, MaxLimit: ac.Cfg.MaxPageSize})
	if err != nil {
		return ac.fail(c, err)
	}

	page, err := ac.Store.List(c.UserContext(), ownerID, filter)
	if err != nil {
		return ac.fail(c, err)
	}
	return utils.Paginate(c, page.Items, page.Total, filter.Page, filter.Limit)
}

// GetAttempt godoc
// @Summary Get one attempt for review
// @Tags attempts
// @Produce json
// @Param id path string true "attempt id"
// @Success 200 {object} models.Attempt
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /attempts/{id} [get]
func (ac *AttemptsController) GetAttempt(c *fiber.Ctx) error {
	attempt, err := ac.Store.GetByID(c.UserContext(), middleware.OwnerID(c), c.Params("id"))
	if err != nil {
		return ac.fail(c, err)
	}
	return c.JSON(attempt)
}

// GetSummary godoc
// @Summary Summary statistics for the history header cards
// @Tags attempts
// @Produce json
// @Success 200 {object} models.Summary
// @Security ApiKeyAuth
// @Router /attempts/stats/summary [get]
func (ac *AttemptsController) GetSummary(c *fiber.Ctx) error {
	summary, err := ac.Summarizer.Summarize(c.UserContext(), middleware.OwnerID(c))
	if err != nil {
		return ac.fail(c, err)
	}
	return c.JSON(summary)
}

// fail maps the error taxonomy onto HTTP statuses.
func (ac *AttemptsController) fail(c *fiber.Ctx, err error) error {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		return utils.BadRequest(c, verr.Error(), fiber.Map{"field": verr.Field})
	case errors.Is(err, apperrors.ErrNotFound):
		return utils.NotFound(c, "Attempt not found")
	default:
		ac.Log.Error("request failed", "path", c.Path(), "error", err)
		return utils.InternalServerError(c, err.Error())
	}
}
