package errors

import (
	"strings"
	"testing"
)

func TestValidateObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "box", false},
		{"with spaces and slash", "Scene / Box 1", false},
		{"unicode", "Würfel", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"newline", "box\nlid", true},
		{"null byte", "box\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateObjectKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidKey) {
				t.Errorf("ValidateObjectKey(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidKey)
			}
		})
	}
}

func TestValidatePropKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"letters", "position", false},
		{"underscore prefix", "_private", false},
		{"digits after first", "x2", false},
		{"camel case", "scaleX", false},

		{"empty", "", true},
		{"leading digit", "2x", true},
		{"dot", "position.x", true},
		{"dash", "font-size", true},
		{"space", "a b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePropKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePropKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "scenes/intro.json", false},
		{"absolute", "/tmp/state.json", false},

		{"empty", "", true},
		{"control char", "scene\x01.json", true},
		{"too long", strings.Repeat("a", 5000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
