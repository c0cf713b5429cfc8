// Package query turns raw list parameters into a canonical filter for the
// attempt store.
package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"quizpractice/backend/apperrors"
	"quizpractice/backend/models"
)

// All is the sentinel meaning "no constraint" for topic and quizType.
const All = "all"

const DefaultSort = "-completedAt"

type Limits struct {
	DefaultLimit int
	MaxLimit     int
}

var DefaultLimits = Limits{DefaultLimit: 10, MaxLimit: 100}

// RawQuery holds list parameters exactly as received.
type RawQuery struct {
	Topic    string
	QuizType string
	Page     string
	Limit    string
	Sort     string
}

type SortField struct {
	Column string
	Desc   bool
}

// CanonicalFilter is the validated form of a list query. Empty Topic or
// QuizType means no constraint.
type CanonicalFilter struct {
	Topic    string
	QuizType models.QuizType
	Page     int
	Limit    int
	Offset   int
	Sort     []SortField
}

// sortable maps API field names to columns.
var sortable = map[string]string{
	"completedAt": "completed_at",
	"startedAt":   "started_at",
	"createdAt":   "created_at",
	"score":       "score",
	"total":       "total",
	"durationSec": "duration_sec",
	"topic":       "topic",
	"quizType":    "quiz_type",
}

// Normalize validates raw and fills in defaults. Non-integer page or limit
// is rejected; page below 1 becomes 1, limit below 1 becomes the default
// and limit above MaxLimit becomes MaxLimit. A page whose offset would not
// fit in an int is rejected.
func Normalize(raw RawQuery, limits Limits) (CanonicalFilter, error) {
	if limits.DefaultLimit <= 0 {
		limits.DefaultLimit = DefaultLimits.DefaultLimit
	}
	if limits.MaxLimit <= 0 {
		limits.MaxLimit = DefaultLimits.MaxLimit
	}

	var f CanonicalFilter

	if topic := strings.TrimSpace(raw.Topic); topic != "" && topic != All {
		f.Topic = topic
	}

	if qt := strings.TrimSpace(raw.QuizType); qt != "" && qt != All {
		quizType := models.QuizType(qt)
		if !quizType.Valid() {
			return CanonicalFilter{}, apperrors.NewValidationError("quizType", "must be one of topic, random, all")
		}
		f.QuizType = quizType
	}

	page, err := parseInt("page", raw.Page, 1)
	if err != nil {
		return CanonicalFilter{}, err
	}
	if page < 1 {
		page = 1
	}

	limit, err := parseInt("limit", raw.Limit, limits.DefaultLimit)
	if err != nil {
		return CanonicalFilter{}, err
	}
	if limit < 1 {
		limit = limits.DefaultLimit
	}
	if limit > limits.MaxLimit {
		limit = limits.MaxLimit
	}

	if page > math.MaxInt/limit {
		return CanonicalFilter{}, apperrors.NewValidationError("page", fmt.Sprintf("must be at most %d", math.MaxInt/limit))
	}

	sort, err := parseSort(raw.Sort)
	if err != nil {
		return CanonicalFilter{}, err
	}

	f.Page = page
	f.Limit = limit
	f.Offset = (page - 1) * limit
	f.Sort = sort
	return f, nil
}

// OrderClause renders Sort as SQL. Only whitelisted columns ever reach it.
func (f CanonicalFilter) OrderClause() string {
	parts := make([]string, 0, len(f.Sort))
	for _, s := range f.Sort {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, s.Column+" "+dir)
	}
	return strings.Join(parts, ", ")
}

func parseInt(field, value string, def int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperrors.NewValidationError(field, "must be an integer")
	}
	return n, nil
}

// parseSort accepts mongoose-style specs such as "-completedAt" or
// "topic,-score". Fields may be separated by commas or spaces. The id column
// is always appended so pages are stable.
func parseSort(spec string) ([]SortField, error) {
	if strings.TrimSpace(spec) == "" {
		spec = DefaultSort
	}
	tokens := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	fields := make([]SortField, 0, len(tokens)+1)
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		desc := false
		switch {
		case strings.HasPrefix(tok, "-"):
			desc = true
			tok = tok[1:]
		case strings.HasPrefix(tok, "+"):
			tok = tok[1:]
		}
		column, ok := sortable[tok]
		if !ok {
			return nil, apperrors.NewValidationError("sort", fmt.Sprintf("unknown sort field %q", tok))
		}
		if seen[column] {
			continue
		}
		seen[column] = true
		fields = append(fields, SortField{Column: column, Desc: desc})
	}
	fields = append(fields, SortField{Column: "id"})
	return fields, nil
}
