package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"metatree/internal/mapper"
	"metatree/primitive"
)

// Default layouts used by Date.String and Date.Time.
const (
	DateLayout = time.DateOnly
	TimeLayout = "15:04"
)

// compactDateLayout is the layout of date picker values.
const compactDateLayout = "20060102"

// dateLayouts are tried in order for date strings.
var dateLayouts = []string{
	time.DateTime,
	time.RFC3339,
	time.DateOnly,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.RFC1123Z,
	time.RFC1123,
}

// Date is a point in time read from a stored value.
type Date struct {
	value time.Time
}

func (env *Env) date(v any) (*Date, error) {
	switch value := v.(type) {
	case *Date:
		return value, nil
	case time.Time:
		return &Date{value: value}, nil
	case string:
		return env.parseDate(strings.TrimSpace(value))
	}

	if primitive.KindOf(v) == primitive.KindInt {
		return &Date{value: time.Unix(primitive.Int(v), 0).UTC()}, nil
	}

	if !primitive.Truthy(v) {
		return &Date{value: env.now()}, nil
	}

	return nil, fmt.Errorf("date %v: %w", v, mapper.ErrMissingObject)
}

func (env *Env) parseDate(s string) (*Date, error) {
	if !primitive.Truthy(s) {
		return &Date{value: env.now()}, nil
	}

	if primitive.IsDigits(s) {
		if len(s) == len(compactDateLayout) {
			if t, err := time.Parse(compactDateLayout, s); err == nil {
				return &Date{value: t}, nil
			}
		}

		sec, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("date %q: %w", s, mapper.ErrMissingObject)
		}

		return &Date{value: time.Unix(sec, 0).UTC()}, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &Date{value: t}, nil
		}
	}

	return nil, fmt.Errorf("date %q: %w", s, mapper.ErrMissingObject)
}

// Value returns the underlying time.
func (d *Date) Value() time.Time {
	return d.value
}

// Format formats the date with a time layout.
func (d *Date) Format(layout string) string {
	return d.value.Format(layout)
}

// Unix returns the date as a Unix timestamp.
func (d *Date) Unix() int64 {
	return d.value.Unix()
}

// String formats the date with DateLayout.
func (d *Date) String() string {
	return d.Format(DateLayout)
}

// Time formats the time of day with TimeLayout.
func (d *Date) Time() string {
	return d.Format(TimeLayout)
}

// Materialize implements mapper.Materializer.
func (d *Date) Materialize() (any, error) {
	return d.Format(time.RFC3339), nil
}
