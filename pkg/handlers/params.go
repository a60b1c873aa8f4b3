package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ekaya-inc/ekaya-mes/pkg/kpi"
)

// pathID returns the {id} path parameter.
// Expects path parameter: id
func pathID(r *http.Request) string {
	return r.PathValue("id")
}

// parseTimeParam reads an optional query parameter as either an RFC 3339
// timestamp or a plain date (YYYY-MM-DD) in loc. A missing parameter
// returns nil.
func parseTimeParam(r *http.Request, name string, loc *time.Location) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := kpi.ParseDate(raw, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &t, nil
}
