package commit

import (
	"errors"
	"testing"

	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
	"github.com/gitwhisper/gitwhisper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("should decode a categorized answer", func(t *testing.T) {
		msg, err := Parse(`{"category":"Feat ","title":"  Add X ","changes":["Add X to support Y","- Update Z"]}`, models.CategorizedShape)

		require.NoError(t, err)
		assert.Equal(t, models.CategoryFeat, msg.Category)
		assert.Equal(t, "Add X", msg.Title)
		assert.Equal(t, []string{"Add X to support Y", "Update Z"}, msg.Changes)
	})

	t.Run("should ignore unknown fields and surrounding whitespace", func(t *testing.T) {
		msg, err := Parse("\n {\"title\":\"Fix\",\"changes\":[],\"scope\":\"cli\"}\n", models.SimpleShape)

		require.NoError(t, err)
		assert.Equal(t, "Fix", msg.Title)
		assert.Empty(t, msg.Changes)
	})

	t.Run("should not require a category for the simple shape", func(t *testing.T) {
		_, err := Parse(`{"title":"Fix","changes":["a"]}`, models.SimpleShape)
		assert.NoError(t, err)
	})

	t.Run("should strip bullet markers and drop blank entries", func(t *testing.T) {
		msg, err := Parse(`{"title":"T","changes":["* a","• b","- - c","  ","-"]}`, models.SimpleShape)

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, msg.Changes)
	})

	t.Run("should keep leading dashes and stars that are not bullets", func(t *testing.T) {
		msg, err := Parse(`{"title":"T","changes":["--dry-run now wins over --yes","*ptr is checked for nil","- --flag is documented"]}`, models.SimpleShape)

		require.NoError(t, err)
		assert.Equal(t, []string{"--dry-run now wins over --yes", "*ptr is checked for nil", "--flag is documented"}, msg.Changes)
	})

	t.Run("should strip numbered markers", func(t *testing.T) {
		msg, err := Parse(`{"title":"T","changes":["1. a","2) b","2024 roadmap"]}`, models.SimpleShape)

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "2024 roadmap"}, msg.Changes)
	})

	t.Run("should drop a repeated category prefix from the title", func(t *testing.T) {
		msg, err := Parse(`{"category":"fix","title":"fix(cli): Handle EOF","changes":[]}`, models.CategorizedShape)

		require.NoError(t, err)
		assert.Equal(t, "Handle EOF", msg.Title)
	})

	t.Run("should keep a prefix naming another category", func(t *testing.T) {
		msg, err := Parse(`{"category":"feat","title":"docs: Add guide","changes":[]}`, models.CategorizedShape)

		require.NoError(t, err)
		assert.Equal(t, "docs: Add guide", msg.Title)
	})

	tests := []struct {
		name  string
		raw   string
		shape models.RecordShape
		field string
	}{
		{"missing title", `{"changes":[]}`, models.SimpleShape, "title"},
		{"missing changes", `{"title":"x"}`, models.SimpleShape, "changes"},
		{"missing category", `{"title":"x","changes":[]}`, models.CategorizedShape, "category"},
		{"null changes", `{"title":"x","changes":null}`, models.SimpleShape, "changes"},
		{"blank title", `{"title":"   ","changes":[]}`, models.SimpleShape, "title"},
		{"title of wrong type", `{"title":3,"changes":[]}`, models.SimpleShape, "title"},
		{"changes of wrong type", `{"title":"x","changes":"a"}`, models.SimpleShape, "changes"},
		{"unknown category", `{"category":"feature","title":"x","changes":[]}`, models.CategorizedShape, "category"},
	}
	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw, tt.shape)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainErrors.ErrSchema))
			var appErr *domainErrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.field, appErr.Context["field"])
		})
	}

	t.Run("should reject invalid JSON", func(t *testing.T) {
		for _, raw := range []string{"", `{"title":`, "null", "[1,2]"} {
			_, err := Parse(raw, models.SimpleShape)
			assert.ErrorIs(t, err, domainErrors.ErrSchema, raw)
		}
	})
}

func TestFormat(t *testing.T) {
	t.Run("should render the categorized shape", func(t *testing.T) {
		got := Format(models.CommitMessage{
			Category: models.CategoryFeat,
			Title:    "Add X",
			Changes:  []string{"Add X to support Y", "Update Z"},
		}, models.CategorizedShape)

		assert.Equal(t, "feat: Add X\n\n- Add X to support Y\n- Update Z", got)
	})

	t.Run("should omit the prefix for the simple shape", func(t *testing.T) {
		got := Format(models.CommitMessage{Title: "Add X", Changes: []string{"a"}}, models.SimpleShape)
		assert.Equal(t, "Add X\n\n- a", got)
	})

	t.Run("should render the bare title without changes", func(t *testing.T) {
		got := Format(models.CommitMessage{Category: models.CategoryFix, Title: "Fix it"}, models.CategorizedShape)
		assert.Equal(t, "fix: Fix it", got)
	})
}

func TestParseFormatRoundTrip(t *testing.T) {
	msg, err := Parse(`{"category":"feat","title":"Add X","changes":["Add X to support Y","- Update Z"]}`, models.CategorizedShape)
	require.NoError(t, err)

	assert.Equal(t, "feat: Add X\n\n- Add X to support Y\n- Update Z", Format(msg, models.CategorizedShape))
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		message string
		subject string
		body    string
	}{
		{"subject only", "feat: Add X", "feat: Add X", ""},
		{"subject and body", "feat: Add X\n\n- a\n- b", "feat: Add X", "- a\n- b"},
		{"no blank separator", "Add X\n- a", "Add X", "- a"},
		{"trailing whitespace", "  Add X  \n\n- a\n\n", "Add X", "- a"},
		{"crlf", "Add X\r\n\r\n- a", "Add X", "- a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body, err := Split(tt.message)

			require.NoError(t, err)
			assert.Equal(t, tt.subject, subject)
			assert.Equal(t, tt.body, body)
		})
	}

	t.Run("should reject an empty subject", func(t *testing.T) {
		_, _, err := Split("\n\n- a")
		assert.ErrorIs(t, err, domainErrors.ErrEmptySubject)
	})
}
