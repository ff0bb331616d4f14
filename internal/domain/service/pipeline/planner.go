package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type Planner interface {
	Plan(ctx context.Context, req entity.RunRequest) ([]value.Step, error)
}

type FixedPlanner struct{}

func (FixedPlanner) Plan(context.Context, entity.RunRequest) ([]value.Step, error) {
	return value.Steps(), nil
}

type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

const plannerSystemPrompt = `You plan an e-commerce automation run. The mandatory steps always run. ` +
	`From the optional steps, pick those that serve the user goal. ` +
	`Answer with a JSON array of step names only, e.g. ["predict_ads"].`

// LLMPlanner может только убрать необязательные шаги; порядок всегда канонический.
type LLMPlanner struct {
	generator TextGenerator
}

func NewLLMPlanner(generator TextGenerator) LLMPlanner {
	return LLMPlanner{generator: generator}
}

func (p LLMPlanner) Plan(ctx context.Context, req entity.RunRequest) ([]value.Step, error) {
	var optional []string

	for _, s := range value.Steps() {
		if s.Optional() {
			optional = append(optional, s.String())
		}
	}

	prompt := fmt.Sprintf("Goal: %s\nSend emails: %t\nOptional steps: %s",
		req.Goal, req.SendEmails, strings.Join(optional, ", "))

	answer, err := p.generator.Generate(ctx, plannerSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("generator.Generate: %w", err)
	}

	chosen, err := parseSteps(answer)
	if err != nil {
		return nil, err
	}

	return Restrict(chosen), nil
}

// Restrict keeps all mandatory steps plus the optional ones listed in chosen,
// in canonical order. Unknown names are ignored.
func Restrict(chosen []value.Step) []value.Step {
	plan := make([]value.Step, 0, len(value.Steps()))

	for _, s := range value.Steps() {
		if !s.Optional() || slices.Contains(chosen, s) {
			plan = append(plan, s)
		}
	}

	return plan
}

func parseSteps(answer string) ([]value.Step, error) {
	start := strings.Index(answer, "[")
	end := strings.LastIndex(answer, "]")

	if start < 0 || end < start {
		return nil, fmt.Errorf("planner: no JSON array in %q", answer)
	}

	var names []string
	if err := json.UnmarshalFromString(answer[start:end+1], &names); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	steps := make([]value.Step, 0, len(names))
	for _, n := range names {
		steps = append(steps, value.Step(strings.TrimSpace(strings.ToLower(n))))
	}

	return steps, nil
}
