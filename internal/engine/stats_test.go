package engine

import (
	"testing"

	"wfm-flipper/internal/wfm"
)

func points(volumes ...int64) []wfm.StatisticsPoint {
	ps := make([]wfm.StatisticsPoint, len(volumes))
	for i, v := range volumes {
		ps[i] = wfm.StatisticsPoint{Volume: v}
	}
	return ps
}

func TestTrailingVolume_EmptyMapping(t *testing.T) {
	if v := TrailingVolume(map[string][]wfm.StatisticsPoint{}, "48hours", "90days", 10); v != 0 {
		t.Errorf("TrailingVolume(empty) = %d, want 0", v)
	}
}

func TestTrailingVolume_NilMapping(t *testing.T) {
	if v := TrailingVolume(nil, "48hours", "90days", 10); v != 0 {
		t.Errorf("TrailingVolume(nil) = %d, want 0", v)
	}
}

func TestTrailingVolume_FallbackPeriod(t *testing.T) {
	periods := map[string][]wfm.StatisticsPoint{
		"48hours": {},
		"90days":  points(10, 20, 30),
	}
	if v := TrailingVolume(periods, "48hours", "90days", 10); v != 20 {
		t.Errorf("TrailingVolume = %d, want 20", v)
	}
}

func TestTrailingVolume_PreferredWins(t *testing.T) {
	periods := map[string][]wfm.StatisticsPoint{
		"48hours": points(6, 6, 6),
		"90days":  points(1000, 1000),
	}
	if v := TrailingVolume(periods, "48hours", "90days", 10); v != 6 {
		t.Errorf("TrailingVolume = %d, want 6 (preferred series)", v)
	}
}

func TestTrailingVolume_FloorDivision(t *testing.T) {
	periods := map[string][]wfm.StatisticsPoint{"48hours": points(1, 2)}
	// (1+2)/2 = 1.5 floors to 1
	if v := TrailingVolume(periods, "48hours", "90days", 10); v != 1 {
		t.Errorf("TrailingVolume = %d, want 1", v)
	}
}

func TestTrailingVolume_WindowTrimsOldPoints(t *testing.T) {
	series := points(9999, 10, 10, 10)
	periods := map[string][]wfm.StatisticsPoint{"48hours": series}
	if v := TrailingVolume(periods, "48hours", "90days", 3); v != 10 {
		t.Errorf("TrailingVolume = %d, want 10", v)
	}

	// Mutating a point outside the window must not change the result.
	series[0].Volume = 1
	if v := TrailingVolume(periods, "48hours", "90days", 3); v != 10 {
		t.Errorf("TrailingVolume after mutation = %d, want 10", v)
	}
}

func TestTrailingVolume_SeriesShorterThanWindow(t *testing.T) {
	periods := map[string][]wfm.StatisticsPoint{"48hours": points(4, 8)}
	if v := TrailingVolume(periods, "48hours", "90days", 10); v != 6 {
		t.Errorf("TrailingVolume = %d, want 6", v)
	}
}

func TestTrailingVolume_ExactWindow(t *testing.T) {
	periods := map[string][]wfm.StatisticsPoint{"48hours": points(5, 10, 15)}
	if v := TrailingVolume(periods, "48hours", "90days", 3); v != 10 {
		t.Errorf("TrailingVolume = %d, want 10", v)
	}
}

func TestTrailingVolume_ZeroWindow(t *testing.T) {
	periods := map[string][]wfm.StatisticsPoint{"48hours": points(5)}
	if v := TrailingVolume(periods, "48hours", "90days", 0); v != 0 {
		t.Errorf("TrailingVolume(window=0) = %d, want 0", v)
	}
}
