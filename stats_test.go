package narramd

import "testing"

func TestExtractStats(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMag *float64
		wantDep *int
	}{
		{
			name:    "magnitude and depth",
			input:   "A magnitude M 5.4 event struck at 12 km depth near Surigao.",
			wantMag: f64(5.4),
			wantDep: iptr(12),
		},
		{
			name:    "compact magnitude",
			input:   "The M6.2 mainshock was widely felt.",
			wantMag: f64(6.2),
		},
		{
			name:    "lowercase magnitude",
			input:   "an m 4.8 aftershock followed",
			wantMag: f64(4.8),
		},
		{
			name:    "integer magnitude",
			input:   "Historical records mention an M 7 event in the strait.",
			wantMag: f64(7),
		},
		{
			name:  "depth only",
			input: "Hypocenters clustered around 33 km depth this week.",
			wantDep: iptr(33),
		},
		{
			name:    "first magnitude wins",
			input:   "M 5.1 followed by an M 6.0 aftershock sequence.",
			wantMag: f64(5.1),
		},
		{
			name:  "km without depth ignored",
			input: "The epicenter was 40 km east of Legazpi.",
		},
		{
			name:  "word boundary respected",
			input: "STORM 3 passed over the region.",
		},
		{
			name:  "no figures",
			input: "Seismic activity remained quiet across all monitored regions.",
		},
		{
			name:  "empty",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractStats(tt.input)
			if !f64Equal(got.Magnitude, tt.wantMag) {
				t.Errorf("Magnitude = %v, want %v", deref(got.Magnitude), deref(tt.wantMag))
			}
			if !intEqual(got.DepthKm, tt.wantDep) {
				t.Errorf("DepthKm = %v, want %v", deref(got.DepthKm), deref(tt.wantDep))
			}
		})
	}
}

func f64(v float64) *float64 { return &v }
func iptr(v int) *int        { return &v }

func f64Equal(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
