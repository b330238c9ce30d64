package errors

import (
	"math"
	"testing"
)

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name                 string
		width, height, rooms int
		wantErr              bool
	}{
		{"valid", 10, 10, 6, false},
		{"single cell", 1, 1, 1, false},
		{"one room per cell", 3, 3, 9, false},

		{"zero width", 0, 5, 1, true},
		{"negative height", 5, -1, 1, true},
		{"zero rooms", 5, 5, 0, true},
		{"too many rooms", 2, 2, 5, true},
		{"product wraps", 1<<62 + 1, 4, 2, true},
		{"product overflows", math.MaxInt, 2, 1, true},
		{"largest width", math.MaxInt, 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.width, tt.height, tt.rooms)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%d, %d, %d) error = %v, wantErr %v", tt.width, tt.height, tt.rooms, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePadding(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"default", " ", false},
		{"empty", "", false},
		{"dots", "..", false},

		{"newline", "\n", true},
		{"digit", " 1", true},
		{"too long", "          ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePadding(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePadding(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		schemes []string
		wantErr bool
	}{
		{"redis", "redis://localhost:6379/0", []string{"redis", "rediss"}, false},
		{"rediss", "rediss://cache:6380", []string{"redis", "rediss"}, false},
		{"mongo srv", "mongodb+srv://cluster.example.net", []string{"mongodb", "mongodb+srv"}, false},

		{"empty", "", []string{"redis"}, true},
		{"wrong scheme", "http://localhost", []string{"redis"}, true},
		{"no scheme", "localhost:6379", []string{"redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURI(tt.input, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
