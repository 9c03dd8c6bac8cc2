package input

import (
	"errors"
	"testing"

	"github.com/voxhire/voxhire/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain text", raw: "my answer", want: "my answer"},
		{name: "surrounding whitespace trimmed", raw: "  my answer \t\n", want: "my answer"},
		{name: "interior whitespace preserved", raw: " a  b ", want: "a  b"},
		{name: "empty", raw: "", wantErr: true},
		{name: "whitespace only", raw: " \t\n ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrEmptyInput) {
					t.Errorf("Normalize(%q) error = %v, want ErrEmptyInput", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
