package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
	"github.com/ewilliams-labs/stalify/internal/core/services"
)

// queryLimit parses ?limit, defaulting to def. Range checks belong to the services.
func queryLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: limit must be an integer, got %q", services.ErrInvalidArgument, raw)
	}
	return n, nil
}

func queryTimeRange(r *http.Request) (domain.TimeRange, error) {
	return domain.ParseTimeRange(r.URL.Query().Get("time_range"))
}

// queryLocation parses ?tz as an IANA zone. nil means the server default.
func queryLocation(r *http.Request) (*time.Location, error) {
	raw := r.URL.Query().Get("tz")
	if raw == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", services.ErrInvalidArgument, raw)
	}
	return loc, nil
}

// queryIDs splits a comma separated id list, dropping blanks.
func queryIDs(r *http.Request, key string) []string {
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get(key), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
