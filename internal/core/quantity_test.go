package core

import "testing"

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"integer", "12", 12, false},
		{"dot decimal", "12.5", 12.5, false},
		{"comma decimal", "12,5", 12.5, false},
		{"zero", "0", 0, false},
		{"whitespace trimmed", "  3.25 ", 3.25, false},
		{"empty", "", 0, true},
		{"negative", "-4", 0, true},
		{"explicit plus sign", "+4", 0, true},
		{"two separators", "1.2.3", 0, true},
		{"mixed separators", "1,2.3", 0, true},
		{"letters", "abc", 0, true},
		{"trailing letters", "12x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuantity(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseQuantity(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseQuantity(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCoerceQuantity(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"float64 passes through", float64(7.5), 7.5},
		{"int", int(3), 3},
		{"int64", int64(9), 9},
		{"numeric string", "12,5", 12.5},
		{"malformed string coerces to zero", "n/a", 0},
		{"nil coerces to zero", nil, 0},
		{"bool coerces to zero", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceQuantity(tt.input); got != tt.want {
				t.Errorf("CoerceQuantity(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
