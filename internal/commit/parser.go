package commit

import (
	"bytes"
	"encoding/json"
	"strings"

	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
	"github.com/gitwhisper/gitwhisper/internal/models"
	"github.com/gitwhisper/gitwhisper/internal/regex"
)

// Parse decodes the JSON answer of the model for the given shape. Unknown
// fields are ignored; missing, mistyped or blank required fields are rejected
// with ErrSchema naming the field.
func Parse(raw string, shape models.RecordShape) (models.CommitMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields); err != nil {
		return models.CommitMessage{}, domainErrors.ErrSchema.WithError(err)
	}
	if fields == nil {
		return models.CommitMessage{}, domainErrors.ErrSchema.WithContext("reason", "not a JSON object")
	}

	for _, name := range shape.Required() {
		if v, ok := fields[name]; !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return models.CommitMessage{}, schemaError(name, "missing", nil)
		}
	}

	var msg models.CommitMessage

	if err := json.Unmarshal(fields[models.FieldTitle], &msg.Title); err != nil {
		return models.CommitMessage{}, schemaError(models.FieldTitle, "not a string", err)
	}
	msg.Title = strings.TrimSpace(msg.Title)
	if msg.Title == "" {
		return models.CommitMessage{}, schemaError(models.FieldTitle, "blank", nil)
	}

	var changes []string
	if err := json.Unmarshal(fields[models.FieldChanges], &changes); err != nil {
		return models.CommitMessage{}, schemaError(models.FieldChanges, "not an array of strings", err)
	}
	msg.Changes = NormalizeChanges(changes)

	if shape.Categorized {
		var category string
		if err := json.Unmarshal(fields[models.FieldCategory], &category); err != nil {
			return models.CommitMessage{}, schemaError(models.FieldCategory, "not a string", err)
		}
		msg.Category = models.Category(strings.ToLower(strings.TrimSpace(category)))
		if !msg.Category.Valid() {
			return models.CommitMessage{}, schemaError(models.FieldCategory, "unknown category", nil).
				WithContext("value", category)
		}
		msg.Title = dropCategoryPrefix(msg.Title, msg.Category)
	}

	return msg, nil
}

// dropCategoryPrefix removes a "feat: " style header the model repeated in the
// title when it names the same category, so Format does not render it twice.
func dropCategoryPrefix(title string, category models.Category) string {
	m := regex.ConventionalPrefix.FindStringSubmatch(title)
	if m == nil || models.Category(strings.ToLower(m[1])) != category {
		return title
	}
	if rest := strings.TrimSpace(m[5]); rest != "" {
		return rest
	}
	return title
}

// NormalizeChanges trims each entry and strips leading bullet or number markers. Entries
// left empty are dropped; order is kept.
func NormalizeChanges(changes []string) []string {
	out := make([]string, 0, len(changes))
	for _, c := range changes {
		if c = stripBullets(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func stripBullets(s string) string {
	for {
		s = strings.TrimSpace(s)
		trimmed := regex.BulletItem.ReplaceAllString(s, "")
		trimmed = regex.NumberedItem.ReplaceAllString(trimmed, "")
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

func schemaError(field, reason string, err error) *domainErrors.AppError {
	e := domainErrors.ErrSchema.WithContext("field", field).WithContext("reason", reason)
	if err != nil {
		e = e.WithError(err)
	}
	return e
}
