package ollama

import "github.com/gitwhisper/gitwhisper/internal/models"

// Schema is the JSON schema subset Ollama accepts in the "format" field of a
// chat request to constrain the answer.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Enum       []string           `json:"enum,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// Descriptor builds the structured-output schema for a record shape. It is
// sent as-is; answers are checked by the commit parser, not against it.
func Descriptor(shape models.RecordShape) *Schema {
	props := map[string]*Schema{
		models.FieldTitle: {Type: "string"},
		models.FieldChanges: {
			Type:  "array",
			Items: &Schema{Type: "string"},
		},
	}
	if shape.Categorized {
		props[models.FieldCategory] = &Schema{
			Type: "string",
			Enum: models.CategoryNames(),
		}
	}

	return &Schema{
		Type:       "object",
		Properties: props,
		Required:   shape.Required(),
	}
}
