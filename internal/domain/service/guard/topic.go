package guard

import (
	"context"
	"fmt"
	"strings"

	"storepilot/internal/domain"
	"storepilot/pkg/errcodes"
)

// Classifier answers a yes/no question with free text.
type Classifier interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

const topicSystemPrompt = `You are a classifier. Answer with exactly one word: YES if the user goal is about ` +
	`e-commerce (finding products, suppliers, running or marketing an online store), NO otherwise.`

//nolint:gochecknoglobals
var commerceKeywords = []string{
	"product", "store", "shop", "supplier", "sell", "dropship", "e-commerce", "ecommerce",
	"margin", "niche", "trend", "inventory", "wholesale", "brand", "ads", "market",
}

// TopicFilter отсекает цели, не связанные с e-commerce.
type TopicFilter struct {
	classifier Classifier
}

// NewTopicFilter works on keywords alone when classifier is nil.
func NewTopicFilter(classifier Classifier) *TopicFilter {
	return &TopicFilter{classifier: classifier}
}

func (f *TopicFilter) Check(ctx context.Context, goal string) error {
	lower := strings.ToLower(goal)

	for _, kw := range commerceKeywords {
		if strings.Contains(lower, kw) {
			return nil
		}
	}

	if f.classifier == nil {
		return offTopic(goal)
	}

	answer, err := f.classifier.Generate(ctx, topicSystemPrompt, goal)
	if err != nil {
		if domain.IsAuthentication(err) {
			return fmt.Errorf("guard.Check: %w", err)
		}

		// классификатор недоступен: не блокируем прогон
		return nil
	}

	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(answer)), "YES") {
		return nil
	}

	return offTopic(goal)
}

func offTopic(goal string) error {
	return domain.NewValidationError(errcodes.OffTopicGoal, fmt.Sprintf("goal %q is not about e-commerce", goal))
}
