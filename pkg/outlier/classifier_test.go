package outlier

import (
	"errors"
	"math"
	"testing"
)

func TestClassifyThreshold(t *testing.T) {
	cls, err := Classify(nil, 0.975)
	if err != nil {
		t.Fatal(err)
	}
	// sqrt of the 0.975 chi-square(1) quantile.
	if math.Abs(cls.Threshold-2.2414027) > 1e-6 {
		t.Errorf("threshold = %v, want 2.2414027", cls.Threshold)
	}
	if cls.ConfLevel != 0.975 {
		t.Errorf("conflev echoed as %v", cls.ConfLevel)
	}
}

func TestClassifyFlagsLargeResiduals(t *testing.T) {
	tests := []struct {
		name      string
		residuals []float64
		conflev   float64
		want      []int
	}{
		{
			name:      "no outliers",
			residuals: []float64{0.1, -0.5, 1.2, -2.0},
			conflev:   0.975,
			want:      nil,
		},
		{
			name:      "both signs flagged",
			residuals: []float64{0.1, 5.0, -0.5, -7.2, 2.0},
			conflev:   0.975,
			want:      []int{1, 3},
		},
		{
			name:      "tighter level flags more",
			residuals: []float64{0.1, 5.0, -0.5, -7.2, 2.0},
			conflev:   0.90,
			want:      []int{1, 3, 4},
		},
		{
			name:      "boundary is exclusive",
			residuals: []float64{2.2414027},
			conflev:   0.975,
			want:      nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := Classify(tt.residuals, tt.conflev)
			if err != nil {
				t.Fatal(err)
			}
			if len(cls.Indices) != len(tt.want) {
				t.Fatalf("flagged %v, want %v", cls.Indices, tt.want)
			}
			for i := range tt.want {
				if cls.Indices[i] != tt.want[i] {
					t.Fatalf("flagged %v, want %v", cls.Indices, tt.want)
				}
			}
			for _, idx := range tt.want {
				if !cls.IsOutlier(idx) {
					t.Errorf("IsOutlier(%d) = false", idx)
				}
			}
			if cls.IsOutlier(0) && tt.want != nil && tt.want[0] != 0 {
				t.Error("IsOutlier(0) = true for clean observation")
			}
		})
	}
}

func TestClassifyRejectsBadConfidenceLevel(t *testing.T) {
	for _, conflev := range []float64{-0.5, 0, 1, 1.5} {
		if _, err := Classify([]float64{1}, conflev); !errors.Is(err, ErrInvalidConfidenceLevel) {
			t.Errorf("conflev %v: error = %v, want ErrInvalidConfidenceLevel", conflev, err)
		}
	}
}
