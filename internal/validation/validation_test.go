package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Str0ng-Passw0rd!", false},
		{"too short", "Sh0rt-pw!", true},
		{"too long", strings.Repeat("Aa1!", 33), true},
		{"no uppercase", "weak-passw0rd!!!", true},
		{"no lowercase", "WEAK-PASSW0RD!!!", true},
		{"no digit", "Weak-Password!!!", true},
		{"no special", "WeakPassword123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDisplayName(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateDisplayName("Ada Lovelace"))
	assert.Error(t, ValidateDisplayName(""))
	assert.Error(t, ValidateDisplayName("   "))
	assert.Error(t, ValidateDisplayName(strings.Repeat("x", 81)))
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateEmail("author@example.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@sub.domain.org"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail("@example.com"))
}
