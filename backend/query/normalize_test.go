package query

import (
	"math"
	"strconv"
	"testing"

	"quizpractice/backend/apperrors"
	"quizpractice/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	f, err := Normalize(RawQuery{}, DefaultLimits)
	require.NoError(t, err)

	assert.Empty(t, f.Topic)
	assert.Empty(t, f.QuizType)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 0, f.Offset)
	assert.Equal(t, []SortField{{Column: "completed_at", Desc: true}, {Column: "id"}}, f.Sort)
	assert.Equal(t, "completed_at DESC, id ASC", f.OrderClause())
}

func TestNormalizeAllSentinel(t *testing.T) {
	omitted, err := Normalize(RawQuery{}, DefaultLimits)
	require.NoError(t, err)
	all, err := Normalize(RawQuery{Topic: "all", QuizType: "all"}, DefaultLimits)
	require.NoError(t, err)

	assert.Equal(t, omitted, all)
}

func TestNormalizeFilters(t *testing.T) {
	f, err := Normalize(RawQuery{Topic: " Idioms ", QuizType: "random"}, DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, "Idioms", f.Topic)
	assert.Equal(t, models.QuizTypeRandom, f.QuizType)

	_, err = Normalize(RawQuery{QuizType: "daily"}, DefaultLimits)
	assert.True(t, apperrors.IsValidation(err))
}

func TestNormalizePaging(t *testing.T) {
	tests := []struct {
		name        string
		page, limit string
		wantPage    int
		wantLim     int
		wantOffset  int
	}{
		{"explicit", "3", "20", 3, 20, 40},
		{"page zero clamps", "0", "5", 1, 5, 0},
		{"negative page clamps", "-4", "5", 1, 5, 0},
		{"limit zero uses default", "2", "0", 2, 10, 10},
		{"negative limit uses default", "1", "-1", 1, 10, 0},
		{"limit above max clamps", "2", "1000", 2, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Normalize(RawQuery{Page: tt.page, Limit: tt.limit}, DefaultLimits)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, f.Page)
			assert.Equal(t, tt.wantLim, f.Limit)
			assert.Equal(t, tt.wantOffset, f.Offset)
		})
	}
}

func TestNormalizeRejectsNonIntegers(t *testing.T) {
	for _, raw := range []RawQuery{{Page: "two"}, {Limit: "1.5"}, {Page: "1e3"}} {
		_, err := Normalize(raw, DefaultLimits)
		assert.True(t, apperrors.IsValidation(err), "%+v", raw)
	}
}

func TestNormalizeRejectsOverflowingPage(t *testing.T) {
	maxPage := math.MaxInt / 10
	for _, page := range []string{
		strconv.Itoa(math.MaxInt),
		strconv.Itoa(maxPage + 1),
		strconv.Itoa(math.MaxInt/2 + 1),
	} {
		_, err := Normalize(RawQuery{Page: page, Limit: "10"}, DefaultLimits)
		assert.True(t, apperrors.IsValidation(err), page)
	}

	f, err := Normalize(RawQuery{Page: strconv.Itoa(maxPage), Limit: "10"}, DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, maxPage, f.Page)
	assert.Equal(t, (maxPage-1)*10, f.Offset)
	assert.Positive(t, f.Offset)
}

func TestNormalizeCustomLimits(t *testing.T) {
	f, err := Normalize(RawQuery{}, Limits{DefaultLimit: 25, MaxLimit: 30})
	require.NoError(t, err)
	assert.Equal(t, 25, f.Limit)

	f, err = Normalize(RawQuery{Limit: "31"}, Limits{DefaultLimit: 25, MaxLimit: 30})
	require.NoError(t, err)
	assert.Equal(t, 30, f.Limit)

	f, err = Normalize(RawQuery{}, Limits{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLimits.DefaultLimit, f.Limit)
}

func TestParseSort(t *testing.T) {
	f, err := Normalize(RawQuery{Sort: "topic,-score"}, DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, "topic ASC, score DESC, id ASC", f.OrderClause())

	f, err = Normalize(RawQuery{Sort: "-durationSec +startedAt -durationSec"}, DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, "duration_sec DESC, started_at ASC, id ASC", f.OrderClause())

	for _, bad := range []string{"password", "-", "score;DROP TABLE quiz_attempts"} {
		_, err := Normalize(RawQuery{Sort: bad}, DefaultLimits)
		assert.True(t, apperrors.IsValidation(err), bad)
	}
}
