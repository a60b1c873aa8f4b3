package alerts

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// SortOrder orders the alert feed.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortType   SortOrder = "type"
)

// TypeAll disables the type filter.
const TypeAll = "all"

// Query selects and orders a view of the feed.
type Query struct {
	Search string
	Type   string
	Sort   SortOrder
}

// Stats counts the whole feed by type, ignoring any filter.
type Stats struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Success  int `json:"success"`
}

// ComputeStats counts alerts by type.
func ComputeStats(alerts []models.Alert) Stats {
	stats := Stats{Total: len(alerts)}
	for _, a := range alerts {
		switch a.Type {
		case models.AlertTypeError:
			stats.Errors++
		case models.AlertTypeWarning:
			stats.Warnings++
		case models.AlertTypeInfo:
			stats.Info++
		case models.AlertTypeSuccess:
			stats.Success++
		}
	}
	return stats
}

// Filter returns the alerts matching q in the order q asks for. Search is a
// case-insensitive substring match on message or source. The input is not
// modified.
func Filter(alerts []models.Alert, q Query) []models.Alert {
	search := strings.ToLower(q.Search)
	out := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if q.Type != "" && q.Type != TypeAll && string(a.Type) != q.Type {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(a.Message), search) &&
			!strings.Contains(strings.ToLower(a.Source), search) {
			continue
		}
		out = append(out, a)
	}

	switch q.Sort {
	case SortOldest:
		slices.SortStableFunc(out, func(x, y models.Alert) int { return x.Timestamp.Compare(y.Timestamp) })
	case SortType:
		slices.SortStableFunc(out, func(x, y models.Alert) int { return cmp.Compare(x.Type, y.Type) })
	default:
		slices.SortStableFunc(out, func(x, y models.Alert) int { return y.Timestamp.Compare(x.Timestamp) })
	}
	return out
}

// ParseSort validates a sort order; empty means newest first.
func ParseSort(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortType:
		return SortOrder(s), nil
	}
	return "", fmt.Errorf("unknown sort %q (want newest, oldest or type)", s)
}

// FormatAge renders how long ago t was, falling back to the calendar date
// after a day.
func FormatAge(t, now time.Time) string {
	minutes := int(now.Sub(t) / time.Minute)
	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%dh ago", minutes/60)
	}
	return t.Format(time.DateOnly)
}
