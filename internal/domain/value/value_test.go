package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"storepilot/internal/domain/value"
)

func TestMargin(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name  string
		cost  float64
		price float64
		want  float64
	}{
		{name: "Pet bowl", cost: 11.50, price: 29.99, want: 0.6165},
		{name: "Loss", cost: 20, price: 10, want: -1},
		{name: "Zero price", cost: 5, price: 0, want: 0},
		{name: "Free cost", cost: 0, price: 10, want: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.InDelta(tc.want, value.Margin(tc.cost, tc.price), 0.0001)
		})
	}
}

func TestStepOrder(t *testing.T) {
	rq := require.New(t)

	steps := value.Steps()

	rq.Len(steps, 7)
	rq.Equal(value.StepScanTrends, steps[0])
	rq.Equal(value.StepPredictAds, steps[len(steps)-1])
	rq.True(value.StepPredictAds.Optional())
	rq.False(value.StepProvisionStore.Optional())
	rq.False(value.Step("deploy").Valid())
}
