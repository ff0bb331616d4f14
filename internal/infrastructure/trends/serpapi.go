// Package trends содержит внешние источники трендов: Google Trends через
// SerpAPI и генератор идей товаров на LLM.
package trends

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/infrastructure/apiclient"
	"storepilot/pkg/httpx"
)

const (
	ProviderSerpAPI = "serpapi"

	DefaultSerpAPIURL = "https://serpapi.com"
	serpDateRange     = "today 3-m"
)

type serpResponse struct {
	Error            string `json:"error"`
	InterestOverTime struct {
		TimelineData []struct {
			Date   string `json:"date"`
			Values []struct {
				Query          string  `json:"query"`
				ExtractedValue float64 `json:"extracted_value"`
			} `json:"values"`
		} `json:"timeline_data"`
	} `json:"interest_over_time"`
}

// SerpAPI reads Google Trends interest over time.
type SerpAPI struct {
	client   *resty.Client
	key      string
	timezone int
}

type SerpAPIOptions struct {
	APIKey         string
	BaseURL        string
	Timezone       int
	Timeout        time.Duration
	LogFieldMaxLen int
}

func NewSerpAPI(opts SerpAPIOptions) *SerpAPI {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultSerpAPIURL
	}

	return &SerpAPI{
		client: apiclient.New(apiclient.Options{
			Provider:       ProviderSerpAPI,
			BaseURL:        strings.TrimRight(baseURL, "/"),
			Timeout:        opts.Timeout,
			LogFieldMaxLen: opts.LogFieldMaxLen,
		}),
		key:      opts.APIKey,
		timezone: opts.Timezone,
	}
}

func (s *SerpAPI) Name() string { return ProviderSerpAPI }

func (s *SerpAPI) Provider() string { return ProviderSerpAPI }

func (s *SerpAPI) Configured() bool { return s.key != "" }

// Interest queries the first keyword, or the product name when there is none.
func (s *SerpAPI) Interest(ctx context.Context, candidate entity.Candidate) ([]float64, error) {
	if !s.Configured() {
		return nil, domain.NewAuthenticationError(ProviderSerpAPI, httpx.ErrMissingCredentials)
	}

	query := candidate.Name
	if len(candidate.Keywords) > 0 && strings.TrimSpace(candidate.Keywords[0]) != "" {
		query = candidate.Keywords[0]
	}

	var out serpResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"engine":    "google_trends",
			"q":         query,
			"data_type": "TIMESERIES",
			"date":      serpDateRange,
			"tz":        strconv.Itoa(s.timezone),
			"api_key":   s.key,
		}).
		SetResult(&out).
		SetError(&out).
		Get("/search.json")
	if err := apiclient.Classify(ProviderSerpAPI, resp, err); err != nil {
		return nil, err //nolint:wrapcheck
	}

	points := make([]float64, 0, len(out.InterestOverTime.TimelineData))

	for _, row := range out.InterestOverTime.TimelineData {
		if len(row.Values) == 0 {
			continue
		}

		points = append(points, row.Values[0].ExtractedValue)
	}

	if len(points) == 0 {
		msg := "serpapi: no interest data for " + query
		if out.Error != "" {
			msg += ": " + out.Error
		}

		return nil, domain.NewNoResultsError(msg)
	}

	return points, nil
}

// Verify checks the key against the account endpoint, which does not
// consume search credits.
func (s *SerpAPI) Verify(ctx context.Context) error {
	if !s.Configured() {
		return domain.NewAuthenticationError(ProviderSerpAPI, httpx.ErrMissingCredentials)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("api_key", s.key).
		Get("/account.json")

	return apiclient.Classify(ProviderSerpAPI, resp, err) //nolint:wrapcheck
}
