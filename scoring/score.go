package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/archery-tournament/models"
)

const (
	MinArrowValue = 0
	MaxArrowValue = models.XValue
)

// Summary aggregates a list of arrows. TenCount includes X arrows.
type Summary struct {
	Total    int `json:"total"`
	XCount   int `json:"x_count"`
	TenCount int `json:"ten_count"`
	Arrows   int `json:"arrows"`
}

func (s Summary) Add(o Summary) Summary {
	return Summary{
		Total:    s.Total + o.Total,
		XCount:   s.XCount + o.XCount,
		TenCount: s.TenCount + o.TenCount,
		Arrows:   s.Arrows + o.Arrows,
	}
}

func IsValid(v int) bool {
	return v >= MinArrowValue && v <= MaxArrowValue
}

// Points is the ring value of an arrow; X counts as 10.
func Points(v int) int {
	if v == models.XValue {
		return 10
	}
	return v
}

// Summarize is the single normalisation used by totals, rankings and sets.
// Unshot (nil) and out-of-range arrows are skipped.
func Summarize(arrows []*int) Summary {
	var s Summary
	for _, a := range arrows {
		if a == nil || !IsValid(*a) {
			continue
		}
		s.Arrows++
		s.Total += Points(*a)
		if *a == models.XValue {
			s.XCount++
		}
		if *a >= 10 {
			s.TenCount++
		}
	}
	return s
}

func Total(arrows []*int) int {
	return Summarize(arrows).Total
}

func XCount(arrows []*int) int {
	return Summarize(arrows).XCount
}

func TenCount(arrows []*int) int {
	return Summarize(arrows).TenCount
}

// Validate rejects any shot arrow outside [0, 11].
func Validate(arrows []*int) error {
	for i, a := range arrows {
		if a != nil && !IsValid(*a) {
			return fmt.Errorf("%w: arrow %d has value %d", ErrInvalidArrowValue, i+1, *a)
		}
	}
	return nil
}

// FormatArrow renders an arrow the way it is written on a score sheet.
func FormatArrow(v *int) string {
	switch {
	case v == nil:
		return ""
	case *v == models.XValue:
		return "X"
	case *v == 0:
		return "M"
	default:
		return strconv.Itoa(*v)
	}
}

// ParseArrow is the inverse of FormatArrow. An empty string is an unshot arrow.
func ParseArrow(raw string) (*int, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	switch s {
	case "", "-", "NULL":
		return nil, nil
	case "X":
		v := models.XValue
		return &v, nil
	case "M":
		v := 0
		return &v, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidArrowValue, raw)
	}
	if !IsValid(v) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidArrowValue, v)
	}
	return &v, nil
}

// Arrows builds a fully shot arrow list.
func Arrows(values ...int) []*int {
	out := make([]*int, len(values))
	for i := range values {
		v := values[i]
		out[i] = &v
	}
	return out
}
