package core

import (
	"errors"
	"testing"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Period
		wantErr bool
	}{
		{
			name:  "plain year-month",
			input: "2025-03",
			want:  Period{Year: 2025, Month: 3},
		},
		{
			name:  "unpadded month",
			input: "2025-3",
			want:  Period{Year: 2025, Month: 3},
		},
		{
			name:  "surrounding whitespace",
			input: "  2024-12  ",
			want:  Period{Year: 2024, Month: 12},
		},
		{
			name:    "missing separator",
			input:   "202503",
			wantErr: true,
		},
		{
			name:    "month out of range",
			input:   "2025-13",
			wantErr: true,
		},
		{
			name:    "zero month",
			input:   "2025-00",
			wantErr: true,
		},
		{
			name:    "non-numeric year",
			input:   "abcd-03",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePeriod(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("ParsePeriod(%q) error type = %T, want *ValidationError", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParsePeriod(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPeriod_Key(t *testing.T) {
	p := Period{Year: 2025, Month: 3}
	if got := p.Key(); got != "2025-03" {
		t.Errorf("Key() = %q, want %q", got, "2025-03")
	}
	// Key must round-trip through ParsePeriod.
	back, err := ParsePeriod(p.Key())
	if err != nil {
		t.Fatalf("ParsePeriod(Key()) error = %v", err)
	}
	if back != p {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}

func TestPeriod_Before(t *testing.T) {
	tests := []struct {
		name string
		p, q Period
		want bool
	}{
		{"earlier year", Period{2024, 12}, Period{2025, 1}, true},
		{"earlier month same year", Period{2025, 2}, Period{2025, 3}, true},
		{"equal", Period{2025, 3}, Period{2025, 3}, false},
		{"later", Period{2025, 4}, Period{2025, 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Before(tt.q); got != tt.want {
				t.Errorf("%v.Before(%v) = %v, want %v", tt.p, tt.q, got, tt.want)
			}
		})
	}
}

func TestPeriod_Next(t *testing.T) {
	if got := (Period{2025, 6}).Next(); got != (Period{2025, 7}) {
		t.Errorf("Next() = %v, want 2025-07", got)
	}
	if got := (Period{2025, 12}).Next(); got != (Period{2026, 1}) {
		t.Errorf("Next() across year = %v, want 2026-01", got)
	}
}

func TestPeriodsBetween(t *testing.T) {
	t.Run("spans a year boundary", func(t *testing.T) {
		got := PeriodsBetween(Period{2024, 11}, Period{2025, 2})
		want := []Period{{2024, 11}, {2024, 12}, {2025, 1}, {2025, 2}}
		if len(got) != len(want) {
			t.Fatalf("len = %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("column[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("single month", func(t *testing.T) {
		got := PeriodsBetween(Period{2025, 3}, Period{2025, 3})
		if len(got) != 1 || got[0] != (Period{2025, 3}) {
			t.Errorf("got %v, want single 2025-03", got)
		}
	})

	t.Run("start after end yields empty", func(t *testing.T) {
		if got := PeriodsBetween(Period{2025, 4}, Period{2025, 3}); len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})
}
