package entity

import (
	"time"

	"storepilot/internal/domain/value"
)

type Section struct {
	Status value.SectionStatus `json:"status"`
	Error  string              `json:"error,omitempty"`
	Code   string              `json:"code,omitempty"`
}

// Report собирает результаты всех шагов одного прогона.
type Report struct {
	RunID            string                 `json:"run_id"`
	Goal             string                 `json:"goal"`
	Budget           float64                `json:"budget"`
	MinMargin        float64                `json:"min_margin"`
	Plan             []value.Step           `json:"plan"`
	StartedAt        time.Time              `json:"started_at"`
	FinishedAt       time.Time              `json:"finished_at"`
	Outcome          value.Outcome          `json:"outcome"`
	Products         []Product              `json:"products"`
	Selected         []Product              `json:"selected"`
	Suppliers        []Supplier             `json:"suppliers"`
	SupplierFailures []SupplierFailure      `json:"supplier_failures,omitempty"`
	Negotiations     []NegotiationResult    `json:"negotiations"`
	Store            *StoreRecord           `json:"store,omitempty"`
	Policies         []PolicyDocument       `json:"policies"`
	Ads              []AdPrediction         `json:"ads"`
	Sections         map[value.Step]Section `json:"sections"`
	// Failure is set when the run stopped before its first step.
	Failure *Section `json:"failure,omitempty"`
}

func NewReport(runID string, req RunRequest, plan []value.Step, startedAt time.Time) Report {
	sections := make(map[value.Step]Section, len(value.Steps()))
	for _, step := range value.Steps() {
		sections[step] = Section{Status: value.SectionSkipped}
	}

	return Report{
		RunID:     runID,
		Goal:      req.Goal,
		Budget:    req.Budget,
		MinMargin: req.MinMargin,
		Plan:      plan,
		StartedAt: startedAt,
		Outcome:   value.OutcomeCompleted,
		Sections:  sections,
	}
}

// NewFailedReport records a run that never got past validation or
// authentication, so that a queued run can still be looked up by ID.
func NewFailedReport(req RunRequest, err error, code string, at time.Time) Report {
	r := NewReport(req.RunID, req, nil, at)
	r.FinishedAt = at
	r.Outcome = value.OutcomeFailed
	r.Failure = &Section{Status: value.SectionFailed, Error: err.Error(), Code: code}

	return r
}

func (r *Report) Mark(step value.Step, status value.SectionStatus, err error, code string) {
	section := Section{Status: status, Code: code}
	if err != nil {
		section.Error = err.Error()
	}

	r.Sections[step] = section
}
