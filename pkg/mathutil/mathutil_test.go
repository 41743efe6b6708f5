package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Float noise", 0.1 + 0.2, 0.3},
		{"Zero", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRoundInt(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected int
	}{
		{"Below half", 35.48, 35},
		{"Above half", 22.58, 23},
		{"Exact half rounds up", 2.5, 3},
		{"Negative half rounds toward positive", -2.5, -2},
		{"Weighted average", 0.2*33 + 0.3*50 + 0.5*67, 55},
		{"Blend", 90*0.6 + 100*0.4, 94},
		{"Zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundInt(tt.input); got != tt.expected {
				t.Errorf("RoundInt(%v) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		name     string
		val      int
		expected int
	}{
		{"Inside", 50, 50},
		{"Below", -3, 0},
		{"Above", 140, 100},
		{"Upper edge", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampInt(tt.val, 0, 100); got != tt.expected {
				t.Errorf("ClampInt(%d) = %d, expected %d", tt.val, got, tt.expected)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage(11, 31); math.Abs(got-35.4838) > 0.001 {
		t.Errorf("Percentage(11, 31) = %v, expected ~35.48", got)
	}
	if got := Percentage(5, 0); got != 0 {
		t.Errorf("Percentage(5, 0) = %v, expected 0", got)
	}
}

func TestWeightedSum(t *testing.T) {
	got := WeightedSum([]float64{0.2, 0.3, 0.5}, []float64{33, 50, 67})
	if math.Abs(got-55.1) > 1e-9 {
		t.Errorf("WeightedSum() = %v, expected 55.1", got)
	}

	// Extra values beyond the weights are ignored.
	got = WeightedSum([]float64{1}, []float64{4, 5})
	if got != 4 {
		t.Errorf("WeightedSum() = %v, expected 4", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected []float64
	}{
		{"Already normalized", []float64{0.2, 0.3, 0.5}, []float64{0.2, 0.3, 0.5}},
		{"Two trailing weights", []float64{0.3, 0.5}, []float64{0.375, 0.625}},
		{"Single weight", []float64{0.5}, []float64{1}},
		{"All zero", []float64{0, 0}, []float64{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("Normalize() len = %d, expected %d", len(got), len(tt.expected))
			}
			for i := range got {
				if math.Abs(got[i]-tt.expected[i]) > 1e-9 {
					t.Errorf("Normalize()[%d] = %v, expected %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	input := []float64{1, 1}
	_ = Normalize(input)
	if input[0] != 1 || input[1] != 1 {
		t.Errorf("Normalize() mutated its input: %v", input)
	}
}

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, expected 0", got)
	}
	if got := Mean([]float64{40, 60, 80}); got != 60 {
		t.Errorf("Mean() = %v, expected 60", got)
	}
}
