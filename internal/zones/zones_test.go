package zones

import (
	"math"
	"testing"
)

func TestForIntensity(t *testing.T) {
	tests := []struct {
		intensity int
		expected  string
	}{
		{40, "Recovery"},
		{55, "Recovery"},
		{65, "Easy"},
		{75, "Steady"},
		{85, "Threshold"},
		{88, "Threshold"},
		{92, "VO2max"},
		{97, "Anaerobic"},
		{100, "Neuromuscular"},
		// out of range clamps
		{0, "Recovery"},
		{140, "Neuromuscular"},
	}

	for _, tt := range tests {
		if got := ForIntensity(tt.intensity); got.Name != tt.expected {
			t.Errorf("ForIntensity(%d) = %q, want %q", tt.intensity, got.Name, tt.expected)
		}
	}
}

func TestCatalogShape(t *testing.T) {
	if len(All) != 7 {
		t.Fatalf("catalog has %d zones, want 7", len(All))
	}
	for i := 1; i < len(All); i++ {
		if All[i].Number != All[i-1].Number+1 {
			t.Errorf("zone numbers not sequential at index %d", i)
		}
		if All[i].MinIntensity != All[i-1].MaxIntensity+1 {
			t.Errorf("intensity bands not contiguous between zones %d and %d",
				All[i-1].Number, All[i].Number)
		}
	}
}

func TestPaceForIntensity(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		intensity int
		expected  float64
		delta     float64
	}{
		{"threshold anchor", 300, 88, 300, 0.001},
		{"vo2max pace", 300, 100, 264, 0.001},
		{"recovery jog", 300, 55, 480, 0.001},
		{"zero intensity", 300, 0, 0, 0},
		{"zero threshold", 0, 88, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PaceForIntensity(tt.threshold, tt.intensity)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("PaceForIntensity(%v, %d) = %v, want %v",
					tt.threshold, tt.intensity, got, tt.expected)
			}
		})
	}
}

func TestPaceRange(t *testing.T) {
	z := ForIntensity(85) // Threshold, 81-88
	fast, slow := z.PaceRange(300)

	if math.Abs(fast-300) > 0.001 {
		t.Errorf("fast bound = %v, want 300", fast)
	}
	if math.Abs(slow-300*88.0/81.0) > 0.001 {
		t.Errorf("slow bound = %v, want %v", slow, 300*88.0/81.0)
	}
	if fast >= slow {
		t.Error("fast pace should be fewer seconds than slow pace")
	}
}

func TestHRRange(t *testing.T) {
	z := ForIntensity(65) // Easy, 60-70% of max
	low, high := z.HRRange(190)
	if low != 114 || high != 133 {
		t.Errorf("HRRange(190) = %d-%d, want 114-133", low, high)
	}

	low, high = z.HRRange(0)
	if low != 0 || high != 0 {
		t.Errorf("HRRange(0) = %d-%d, want 0-0", low, high)
	}
}
