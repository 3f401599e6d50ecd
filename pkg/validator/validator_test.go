package validator

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"searchconsole-go/pkg/analytics"
)

func TestValidateRows_CorrectsMalformedRow(t *testing.T) {
	input := []analytics.DataPoint{
		{Query: "shoes", Clicks: -5, Impressions: 10, CTR: -1, Position: 0},
	}

	out := ValidateRows(input)

	want := analytics.DataPoint{Query: "shoes", Clicks: 0, Impressions: 10, CTR: 0, Position: 100}
	if out[0] != want {
		t.Errorf("Expected %+v, got %+v", want, out[0])
	}

	// Input must not be mutated
	if input[0].Clicks != -5 {
		t.Error("ValidateRows mutated its input")
	}
}

func TestValidateRows_Idempotent(t *testing.T) {
	valid := []analytics.DataPoint{
		{Query: "boots", Clicks: 10, Impressions: 100, CTR: 0.1, Position: 5},
		{Query: "sandals", Clicks: 0, Impressions: 3, CTR: 0, Position: 42.5},
	}

	once := ValidateRows(valid)
	twice := ValidateRows(once)

	if !reflect.DeepEqual(once, valid) {
		t.Errorf("Valid data changed by validation: %+v", once)
	}
	if !reflect.DeepEqual(twice, once) {
		t.Errorf("Validation not idempotent: %+v vs %+v", twice, once)
	}
}

func TestValidateRows_LeavesInconsistentRowAlone(t *testing.T) {
	// impressions < clicks and ctr > 1 pass through: only negatives
	// and non-finite values are corrected at row level.
	input := []analytics.DataPoint{
		{Query: "boots", Clicks: 50, Impressions: 40, CTR: 1.25, Position: 3},
	}

	out := ValidateRows(input)
	if out[0] != input[0] {
		t.Errorf("Inconsistent row was modified: %+v", out[0])
	}
}

func TestValidateRows_NonFiniteValues(t *testing.T) {
	input := []analytics.DataPoint{
		{Query: "a", Clicks: 2, Impressions: 10, CTR: math.NaN(), Position: math.Inf(1)},
	}

	out := ValidateRows(input)
	if out[0].CTR != 0.2 {
		t.Errorf("Expected CTR recomputed to 0.2, got %v", out[0].CTR)
	}
	if out[0].Position != 100 {
		t.Errorf("Expected position defaulted to 100, got %v", out[0].Position)
	}
}

func TestValidateMetrics(t *testing.T) {
	cases := []struct {
		name    string
		metrics analytics.AggregatedMetrics
		wantErr bool
	}{
		{"valid", analytics.AggregatedMetrics{TotalClicks: 60, TotalImpressions: 140, AvgCTR: 0.43, AvgPosition: 4.5}, false},
		{"zero", analytics.AggregatedMetrics{}, false},
		{"negative clicks", analytics.AggregatedMetrics{TotalClicks: -1, TotalImpressions: 10}, true},
		{"negative impressions", analytics.AggregatedMetrics{TotalImpressions: -1}, true},
		{"impressions below clicks", analytics.AggregatedMetrics{TotalClicks: 10, TotalImpressions: 5}, true},
		{"ctr above one", analytics.AggregatedMetrics{TotalClicks: 1, TotalImpressions: 2, AvgCTR: 1.5}, true},
		{"position above 100", analytics.AggregatedMetrics{TotalClicks: 1, TotalImpressions: 2, AvgCTR: 0.5, AvgPosition: 101}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateMetrics(tc.metrics)
			if tc.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if err != nil {
				var verr *analytics.ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("Expected *analytics.ValidationError, got %T", err)
				}
			}
		})
	}
}
