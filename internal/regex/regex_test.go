package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConventionalPrefix(t *testing.T) {
	t.Run("should capture type scope and subject", func(t *testing.T) {
		m := ConventionalPrefix.FindStringSubmatch("feat(api)!: add streaming")
		if assert.Len(t, m, 6) {
			assert.Equal(t, "feat", m[1])
			assert.Equal(t, "api", m[3])
			assert.Equal(t, "!", m[4])
			assert.Equal(t, "add streaming", m[5])
		}
	})

	t.Run("should not match a plain title", func(t *testing.T) {
		assert.False(t, ConventionalPrefix.MatchString("Add streaming support"))
		assert.False(t, ConventionalPrefix.MatchString("fix:"))
	})
}

func TestNumberedItem(t *testing.T) {
	assert.Equal(t, "Added x", NumberedItem.ReplaceAllString("1. Added x", ""))
	assert.Equal(t, "Added y", NumberedItem.ReplaceAllString("12) Added y", ""))
	assert.Equal(t, "2024 release notes", NumberedItem.ReplaceAllString("2024 release notes", ""))
}

func TestBulletItem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"- Update Z", "Update Z"},
		{"* a", "a"},
		{"•\tb", "b"},
		{"-", ""},
		{"--dry-run now wins over --yes", "--dry-run now wins over --yes"},
		{"*ptr is checked for nil", "*ptr is checked for nil"},
		{"-1 is returned on EOF", "-1 is returned on EOF"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BulletItem.ReplaceAllString(tt.in, ""), tt.in)
	}
}
