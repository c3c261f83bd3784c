package core

import "testing"

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  str  ", "STR"},
		{"str", "STR"},
		{"STR-01", "STR-01"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCode(tt.input); got != tt.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMasterCategory_Validate(t *testing.T) {
	tests := []struct {
		name     string
		category MasterCategory
		wantErr  bool
	}{
		{"valid", MasterCategory{Code: "STR", Name: "Structural"}, false},
		{"empty code", MasterCategory{Code: "", Name: "Structural"}, true},
		{"lowercase code", MasterCategory{Code: "str", Name: "Structural"}, true},
		{"code too long", MasterCategory{Code: "ABCDEFGHIJK", Name: "Structural"}, true},
		{"empty name", MasterCategory{Code: "STR", Name: "  "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.category.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMasterActivity_Validate(t *testing.T) {
	tests := []struct {
		name     string
		activity MasterActivity
		wantErr  bool
	}{
		{"valid", MasterActivity{Code: "CONC", Name: "Concreting", DefaultUnit: UnitCubicMeter}, false},
		{"missing unit", MasterActivity{Code: "CONC", Name: "Concreting"}, true},
		{"missing name", MasterActivity{Code: "CONC", DefaultUnit: UnitCubicMeter}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.activity.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMasterSubTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		subTask MasterSubTask
		wantErr bool
	}{
		{"valid", MasterSubTask{Name: "Pour foundation", Unit: UnitCubicMeter, DefaultProductivity: 1.5}, false},
		{"zero productivity allowed", MasterSubTask{Name: "Survey", Unit: UnitLumpSum}, false},
		{"negative productivity", MasterSubTask{Name: "Pour", Unit: UnitCubicMeter, DefaultProductivity: -1}, true},
		{"missing unit", MasterSubTask{Name: "Pour"}, true},
		{"missing name", MasterSubTask{Unit: UnitCubicMeter}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.subTask.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
