package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidTimeLimit = errors.New("invalid time limit")

// TimeLimit is a quiz duration in minutes. The zero value means no limit.
// It accepts "none", null, a number or a numeric string.
type TimeLimit struct {
	minutes *int
}

func NewTimeLimit(minutes int) TimeLimit {
	return TimeLimit{minutes: &minutes}
}

func (tl TimeLimit) Minutes() *int {
	if tl.minutes == nil {
		return nil
	}
	m := *tl.minutes
	return &m
}

func (tl *TimeLimit) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		tl.minutes = nil
		return nil
	}

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var s string
	switch v := raw.(type) {
	case string:
		s = strings.TrimSpace(v)
		if s == "" || strings.EqualFold(s, "none") {
			tl.minutes = nil
			return nil
		}
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidTimeLimit, b)
	}

	m := leadingInt(s)
	if m == nil || *m <= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidTimeLimit, s)
	}
	tl.minutes = m
	return nil
}

func (tl TimeLimit) MarshalJSON() ([]byte, error) {
	if tl.minutes == nil {
		return []byte(`null`), nil
	}
	return json.Marshal(*tl.minutes)
}

// leadingInt reads the optional sign and digits at the start of s, so
// "15", "15.5" and "15min" all give 15.
func leadingInt(s string) *int {
	i, sign := 0, 1
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		if s[i] == '-' {
			sign = -1
		}
		i++
	}

	n, digits := 0, 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		digits++
		if n > 1<<20 {
			return nil
		}
	}
	if digits == 0 {
		return nil
	}
	n *= sign
	return &n
}

// ShortDate formats t as month/day/year without zero padding.
func ShortDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}
