package value

// Step это один шаг конвейера.
type Step string

const (
	StepScanTrends         Step = "scan_trends"
	StepFilterMargin       Step = "filter_margin"
	StepFindSuppliers      Step = "find_suppliers"
	StepDraftNegotiation   Step = "draft_negotiation"
	StepProvisionStore     Step = "provision_store"
	StepGenerateCompliance Step = "generate_compliance"
	StepPredictAds         Step = "predict_ads"
)

// Steps returns the canonical execution order.
func Steps() []Step {
	return []Step{
		StepScanTrends,
		StepFilterMargin,
		StepFindSuppliers,
		StepDraftNegotiation,
		StepProvisionStore,
		StepGenerateCompliance,
		StepPredictAds,
	}
}

// Optional reports whether a planner may leave the step out.
func (s Step) Optional() bool {
	switch s {
	case StepDraftNegotiation, StepGenerateCompliance, StepPredictAds:
		return true
	default:
		return false
	}
}

func (s Step) Valid() bool {
	for _, step := range Steps() {
		if s == step {
			return true
		}
	}

	return false
}

func (s Step) String() string {
	return string(s)
}

// SectionStatus это состояние секции отчёта.
type SectionStatus string

const (
	SectionOK      SectionStatus = "ok"
	SectionFailed  SectionStatus = "failed"
	SectionSkipped SectionStatus = "skipped"
	SectionEmpty   SectionStatus = "empty"
)

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeNoResults Outcome = "no_results"
	OutcomeFailed    Outcome = "failed"
)
