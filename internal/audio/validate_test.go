package audio

import (
	"strings"
	"testing"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid word",
			text:    "mitochondria",
			wantErr: false,
		},
		{
			name:    "valid phrase",
			text:    "the powerhouse of the cell",
			wantErr: false,
		},
		{
			name:    "non-Latin text",
			text:    "митохондрия",
			wantErr: false,
		},
		{
			name:    "multiline text",
			text:    "first line\nsecond line",
			wantErr: false,
		},
		{
			name:    "empty text",
			text:    "",
			wantErr: true,
			errMsg:  "text cannot be empty",
		},
		{
			name:    "whitespace only",
			text:    "   \t\n",
			wantErr: true,
			errMsg:  "text cannot be empty",
		},
		{
			name:    "too long",
			text:    strings.Repeat("a", 501),
			wantErr: true,
			errMsg:  "text too long",
		},
		{
			name:    "exactly at limit",
			text:    strings.Repeat("a", 500),
			wantErr: false,
		},
		{
			name:    "non-printable characters",
			text:    "hello\x00world",
			wantErr: true,
			errMsg:  "text contains non-printable characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil {
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateText() error = %v, want error containing %v", err.Error(), tt.errMsg)
				}
			}
		})
	}
}
