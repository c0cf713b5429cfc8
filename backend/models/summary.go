package models

// TopicAggregate is the raw per-topic grouping read from the store.
// AvgPercent is left unrounded.
type TopicAggregate struct {
	Topic      string
	Attempts   int64
	AvgPercent float64
}

type TopicSummary struct {
	Topic      string `json:"topic"`
	Attempts   int64  `json:"attempts"`
	AvgPercent int    `json:"avgPercent"`
}

// Summary backs the header cards on the history page. It is computed on
// demand and never stored.
type Summary struct {
	TotalAttempts     int64          `json:"totalAttempts"`
	AttemptsLast7Days int64          `json:"attemptsLast7Days"`
	ByTopic           []TopicSummary `json:"byTopic"`
}
