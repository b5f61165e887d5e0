package engine

import (
	"math"
	"testing"
)

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPercentile(t *testing.T) {
	t.Run("interpolates_between_ranks", func(t *testing.T) {
		sorted := []float64{10, 20, 30, 40}
		// rank = 0.5 * 3 = 1.5 -> halfway between 20 and 30
		if got := percentile(sorted, 50); !floatEq(got, 25) {
			t.Errorf("expected 25, got %v", got)
		}
	})

	t.Run("exact_rank", func(t *testing.T) {
		sorted := []float64{10, 20, 30}
		if got := percentile(sorted, 50); !floatEq(got, 20) {
			t.Errorf("expected 20, got %v", got)
		}
	})

	t.Run("bounds", func(t *testing.T) {
		sorted := []float64{5, 15, 25}
		if got := percentile(sorted, 0); !floatEq(got, 5) {
			t.Errorf("p0: expected 5, got %v", got)
		}
		if got := percentile(sorted, 100); !floatEq(got, 25) {
			t.Errorf("p100: expected 25, got %v", got)
		}
	})

	t.Run("single_value", func(t *testing.T) {
		if got := percentile([]float64{42}, 90); !floatEq(got, 42) {
			t.Errorf("expected 42, got %v", got)
		}
	})
}

func TestMedian(t *testing.T) {
	t.Run("odd_count", func(t *testing.T) {
		if got := median([]float64{3, 1, 2}); !floatEq(got, 2) {
			t.Errorf("expected 2, got %v", got)
		}
	})

	t.Run("even_count_interpolates", func(t *testing.T) {
		if got := median([]float64{1, 2, 3, 10}); !floatEq(got, 2.5) {
			t.Errorf("expected 2.5, got %v", got)
		}
	})
}

func TestTrimmedMean(t *testing.T) {
	t.Run("drops_extremes_outside_p10_p90", func(t *testing.T) {
		// Ten values with one large outlier. p10/p90 are computed once over
		// the full sorted set; only values inside the inclusive range remain.
		xs := []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 1000}
		got := trimmedMean(xs)
		if got >= mean(xs) {
			t.Errorf("expected trimmed mean below raw mean %v, got %v", mean(xs), got)
		}
		if got < 100 {
			t.Errorf("expected at least 100, got %v", got)
		}
	})

	t.Run("all_equal", func(t *testing.T) {
		xs := []float64{50, 50, 50, 50}
		if got := trimmedMean(xs); !floatEq(got, 50) {
			t.Errorf("expected 50, got %v", got)
		}
	})

	t.Run("two_distinct_values_fall_back_to_mean", func(t *testing.T) {
		// The interpolated bounds exclude both values here; the result must
		// still land inside [min, max].
		xs := []float64{1000, 2000}
		if got := trimmedMean(xs); !floatEq(got, 1500) {
			t.Errorf("expected 1500, got %v", got)
		}
	})

	t.Run("within_min_max", func(t *testing.T) {
		xs := []float64{10, 200, 35, 90, 4, 77}
		got := trimmedMean(xs)
		if got < 4 || got > 200 {
			t.Errorf("expected result within [4, 200], got %v", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := trimmedMean(nil); !floatEq(got, 0) {
			t.Errorf("expected 0, got %v", got)
		}
	})
}

func TestMean(t *testing.T) {
	if got := mean([]float64{1, 2, 3}); !floatEq(got, 2) {
		t.Errorf("expected 2, got %v", got)
	}
	if got := mean(nil); !floatEq(got, 0) {
		t.Errorf("expected 0 for empty input, got %v", got)
	}
}
