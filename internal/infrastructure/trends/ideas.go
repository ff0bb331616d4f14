package trends

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/infrastructure/llm"
	"storepilot/pkg/contextx"
	"storepilot/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

const defaultIdeas = 8

const ideasSystem = "You are a dropshipping product researcher. Answer with JSON only."

//nolint:gochecknoglobals
var ideasPrompt = template.Must(template.New("ideas").Parse(
	`Suggest {{.Count}} products in the "{{.Category}}" niche that are trending right now and can be sourced from wholesale suppliers.
Return a JSON array. Every item has: "name" (string), "keywords" (array of 1-3 search terms), "cost" (wholesale unit cost in USD), "price" (retail price in USD).`))

type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Ideas asks the text generator for candidate products.
type Ideas struct {
	gen   TextGenerator
	count int
}

func NewIdeas(gen TextGenerator) *Ideas {
	return &Ideas{gen: gen, count: defaultIdeas}
}

func (i *Ideas) WithCount(n int) *Ideas {
	if n > 0 {
		i.count = n
	}

	return i
}

func (i *Ideas) Candidates(ctx context.Context, category string) ([]entity.Candidate, error) {
	var prompt bytes.Buffer

	if err := ideasPrompt.Execute(&prompt, map[string]any{"Count": i.count, "Category": category}); err != nil {
		return nil, fmt.Errorf("ideasPrompt.Execute: %w", err)
	}

	text, err := i.gen.Generate(ctx, ideasSystem, prompt.String())
	if err != nil {
		return nil, fmt.Errorf("gen.Generate: %w", err)
	}

	var raw []entity.Candidate

	if err := json.Unmarshal([]byte(llm.ExtractJSON(text)), &raw); err != nil {
		return nil, domain.NewNoResultsError("ideas: unreadable answer for " + category)
	}

	out := lo.Filter(raw, func(c entity.Candidate, _ int) bool {
		return strings.TrimSpace(c.Name) != "" && c.Price > 0 && c.Cost >= 0 && c.Cost < c.Price
	})

	for k := range out {
		out[k].Name = strings.TrimSpace(out[k].Name)
		out[k].Category = category
	}

	if dropped := len(raw) - len(out); dropped > 0 {
		logger(ctx).Debug("ideas dropped",
			slog.String(logx.FieldCategory, category),
			slog.Int("count", dropped),
		)
	}

	if len(out) == 0 {
		return nil, domain.NewNoResultsError("ideas: nothing usable for " + category)
	}

	return lo.Slice(out, 0, i.count), nil
}
