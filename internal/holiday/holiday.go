// Package holiday decides whether a calendar date is an admissible
// last-working-day: not a weekend and not a public holiday for the
// employee's country. Holiday calendars come from a Calendarific-
// compatible API and are cached per country and year for the process
// lifetime.
package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/exitflow/apiserver/types"
)

const (
	defaultBaseURL = "https://calendarific.com/api/v2"
	defaultTimeout = 5 * time.Second

	ReasonWeekend = "the date falls on a weekend"
	ReasonHoliday = "the date falls on a public holiday"
)

// Validation is the outcome of a date eligibility check.
type Validation struct {
	Valid  bool
	Reason string
}

// Config holds the upstream holiday API settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Service checks resignation dates against weekends and public holidays.
type Service struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger

	mu    sync.RWMutex
	cache map[string]map[string]struct{} // "country|year" -> set of YYYY-MM-DD
}

// New constructs a Service. A nil logger falls back to slog.Default.
func New(cfg Config, logger *slog.Logger) *Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
		cache:   make(map[string]map[string]struct{}),
	}
}

// ValidateResignationDate reports whether date is an admissible
// last-working-day for the given country. An unreachable holiday source
// degrades to "no known holidays" and never blocks the caller.
func (s *Service) ValidateResignationDate(ctx context.Context, date time.Time, country string) Validation {
	if isWeekend(date) {
		return Validation{Valid: false, Reason: ReasonWeekend}
	}
	if s.isHoliday(ctx, date, country) {
		return Validation{Valid: false, Reason: ReasonHoliday}
	}
	return Validation{Valid: true}
}

func isWeekend(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

func (s *Service) isHoliday(ctx context.Context, date time.Time, country string) bool {
	holidays := s.holidays(ctx, country, date.Year())
	_, ok := holidays[date.Format(types.DateLayout)]
	return ok
}

// holidays returns the cached holiday set for country/year, fetching it
// on first use. Fetch failures are logged and cached as an empty set so
// one broken year does not trigger a lookup per request.
func (s *Service) holidays(ctx context.Context, country string, year int) map[string]struct{} {
	key := fmt.Sprintf("%s|%d", country, year)

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached
	}

	fetched, err := s.fetch(ctx, country, year)
	if err != nil {
		s.logger.Warn("holiday lookup failed, treating as no known holidays",
			"country", country, "year", year, "err", err)
		fetched = make(map[string]struct{})
	}

	s.mu.Lock()
	s.cache[key] = fetched
	s.mu.Unlock()
	return fetched
}

type holidayResponse struct {
	Response struct {
		Holidays []struct {
			Name string `json:"name"`
			Date struct {
				ISO string `json:"iso"`
			} `json:"date"`
		} `json:"holidays"`
	} `json:"response"`
}

func (s *Service) fetch(ctx context.Context, country string, year int) (map[string]struct{}, error) {
	endpoint, err := url.Parse(s.baseURL + "/holidays")
	if err != nil {
		return nil, err
	}
	q := endpoint.Query()
	q.Set("api_key", s.apiKey)
	q.Set("country", country)
	q.Set("year", fmt.Sprintf("%d", year))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday api status %d", resp.StatusCode)
	}

	var parsed holidayResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	dates := make(map[string]struct{}, len(parsed.Response.Holidays))
	for _, h := range parsed.Response.Holidays {
		iso := h.Date.ISO
		// ISO values may carry a time component.
		if len(iso) > len(types.DateLayout) {
			iso = iso[:len(types.DateLayout)]
		}
		if iso != "" {
			dates[iso] = struct{}{}
		}
	}
	return dates, nil
}
