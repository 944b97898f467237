package normalizer

import (
	"errors"
	"testing"

	"yongpei/internal/failure"
)

func TestNewValidator(t *testing.T) {
	v := NewValidator()
	if v == nil {
		t.Fatal("NewValidator returned nil")
	}
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	valid := []string{
		`{}`,
		`{"淨水器":[]}`,
		`{"淨水器":[{"product":"1"}],"濾心":[{"product":"2"},{"product":"3"}]}`,
	}

	for _, raw := range valid {
		if err := v.Validate([]byte(raw)); err != nil {
			t.Errorf("Validate(%s) returned unexpected error: %v", raw, err)
		}
	}
}

func TestValidator_Validate_Errors(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{
			name:    "Invalid JSON",
			raw:     `{"a":[`,
			wantErr: ErrInvalidJSON,
		},
		{
			name:    "Root array",
			raw:     `[{"product":"1"}]`,
			wantErr: ErrRootNotObject,
		},
		{
			name:    "Category not list",
			raw:     `{"淨水器":{"product":"1"}}`,
			wantErr: ErrCategoryNotList,
		},
		{
			name:    "Record not object",
			raw:     `{"淨水器":[{"product":"1"},"2"]}`,
			wantErr: ErrRecordNotObject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate([]byte(tt.raw))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}

			if !errors.Is(err, failure.ErrDecode) {
				t.Errorf("error should classify as decode failure: %v", err)
			}
		})
	}
}
