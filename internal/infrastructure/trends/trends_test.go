package trends_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/infrastructure/trends"
)

const timeseries = `{
  "interest_over_time": {
    "timeline_data": [
      {"date": "Jan 1", "values": [{"query": "lick mat", "extracted_value": 41}]},
      {"date": "Jan 8", "values": [{"query": "lick mat", "extracted_value": 66}]},
      {"date": "Jan 15", "values": [{"query": "lick mat", "extracted_value": 88}]}
    ]
  }
}`

func TestSerpAPIInterest(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name   string
		key    string
		status int
		body   string
		want   []float64
		check  func(error) bool
	}{
		{name: "Series", key: "k", status: http.StatusOK, body: timeseries, want: []float64{41, 66, 88}},
		{
			name:   "Empty result",
			key:    "k",
			status: http.StatusOK,
			body:   `{"error": "Google Trends hasn't returned any results for this query."}`,
			check:  domain.IsNoResults,
		},
		{name: "Invalid key", key: "k", status: http.StatusUnauthorized, body: `{"error":"Invalid API key."}`, check: domain.IsAuthentication},
		{name: "Rate limited", key: "k", status: http.StatusTooManyRequests, body: `{}`, check: domain.IsNetwork},
		{name: "No key", check: domain.IsAuthentication},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var query map[string]string

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				query = map[string]string{
					"path":   r.URL.Path,
					"engine": r.URL.Query().Get("engine"),
					"q":      r.URL.Query().Get("q"),
					"key":    r.URL.Query().Get("api_key"),
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			s := trends.NewSerpAPI(trends.SerpAPIOptions{APIKey: tc.key, BaseURL: srv.URL})

			got, err := s.Interest(context.Background(), entity.Candidate{Name: "Silicone Lick Mat", Keywords: []string{"lick mat"}})

			if tc.check != nil {
				rq.True(tc.check(err), err)
				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, got)
			rq.Equal(map[string]string{"path": "/search.json", "engine": "google_trends", "q": "lick mat", "key": "k"}, query)
		})
	}
}

type fakeGenerator struct {
	answer string
	err    error
}

func (f fakeGenerator) Generate(context.Context, string, string) (string, error) {
	return f.answer, f.err
}

func TestIdeasCandidates(t *testing.T) {
	rq := require.New(t)

	answer := "```json\n[" +
		`{"name":" Lick Mat ","keywords":["lick mat"],"cost":2,"price":15},` +
		`{"name":"","cost":1,"price":5},` +
		`{"name":"Loss Leader","cost":9,"price":5},` +
		`{"name":"Slicker Brush","cost":4,"price":20}` +
		"]\n```"

	got, err := trends.NewIdeas(fakeGenerator{answer: answer}).Candidates(context.Background(), "pets")
	rq.NoError(err)
	rq.Len(got, 2)
	rq.Equal("Lick Mat", got[0].Name)
	rq.Equal("pets", got[1].Category)

	got, err = trends.NewIdeas(fakeGenerator{answer: answer}).WithCount(1).Candidates(context.Background(), "pets")
	rq.NoError(err)
	rq.Len(got, 1)

	_, err = trends.NewIdeas(fakeGenerator{answer: "I cannot help"}).Candidates(context.Background(), "pets")
	rq.True(domain.IsNoResults(err))

	_, err = trends.NewIdeas(fakeGenerator{err: domain.NewNetworkError("gemini", context.DeadlineExceeded)}).
		Candidates(context.Background(), "pets")
	rq.True(domain.IsNetwork(err))
}
