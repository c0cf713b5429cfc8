package controllers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// timestamp accepts RFC 3339 strings, bare dates and epoch milliseconds.
// Values without a zone are read as UTC.
type timestamp struct {
	time.Time
}

func (ts *timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				ts.Time = t
				return nil
			}
		}
		return fmt.Errorf("invalid timestamp %q", s)
	}

	ms, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	ts.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}
