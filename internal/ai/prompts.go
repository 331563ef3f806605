package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/gitwhisper/gitwhisper/internal/models"
)

const (
	DiffPlaceholder   = "{diff}"
	IntentPlaceholder = "{intent}"

	// InitialCommitDiff stands in for the diff when the repository has no HEAD yet.
	InitialCommitDiff = "[Initial commit detected; no diff available]"
)

// PromptData holds the parameters for rendering the built-in templates.
type PromptData struct {
	Categories string
	Keys       string
}

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

const (
	commitPromptSimpleEN = `You are a professional software engineer that generates concise, clear commit messages.
Please generate a commit message in the following format and follow these rules:
1. Do not include any additional text beyond the commit message itself.
2. The commit message must consist of exactly two parts:
   - A short, descriptive title on the first line (about 50 characters).
   - A bullet-point list of changes made, each on its own line.

Given the following Git diff, please provide a short commit message in JSON with keys
{{.Keys}}. Output the keys in that order.

INTENT (may be empty):
{intent}

DIFF:
{diff}
`

	commitPromptCategorizedEN = `You are a professional software engineer that generates concise, clear commit messages.
Please generate a commit message in the following format and follow these rules:
1. Do not include any additional text beyond the commit message itself.
2. Classify the change with exactly one category from this list: {{.Categories}}.
   - fix: a bug fix; feat: a new feature; docs: documentation only;
     style: formatting with no code change; refactor: restructuring without behaviour change;
     perf: performance; test: tests; build: build system or dependencies;
     ci: CI configuration; chore: anything else.
3. Write a short, imperative title (about 50 characters) without the category prefix.
4. List the changes as short independent statements, one per array element, without bullet markers.

Respond in JSON with keys {{.Keys}}. Output the keys in that order.

INTENT (may be empty; if present, the title and changes must reflect it):
{intent}

DIFF:
{diff}
`

	commitPromptSimpleES = `Sos un ingeniero de software que escribe mensajes de commit concisos y claros.
Generá un mensaje de commit siguiendo estas reglas:
1. No incluyas texto adicional fuera del mensaje de commit.
2. El mensaje tiene exactamente dos partes:
   - Un título corto y descriptivo en la primera línea (unos 50 caracteres).
   - Una lista de cambios, uno por línea.

A partir del siguiente diff de Git, respondé en JSON con las claves
{{.Keys}}. Respetá ese orden.

INTENCIÓN (puede estar vacía):
{intent}

DIFF:
{diff}
`

	commitPromptCategorizedES = `Sos un ingeniero de software que escribe mensajes de commit concisos y claros.
Generá un mensaje de commit siguiendo estas reglas:
1. No incluyas texto adicional fuera del mensaje de commit.
2. Clasificá el cambio con exactamente una categoría de esta lista: {{.Categories}}.
3. Escribí un título corto en imperativo (unos 50 caracteres) sin el prefijo de categoría.
4. Listá los cambios como frases cortas e independientes, una por elemento, sin viñetas.

Respondé en JSON con las claves {{.Keys}}. Respetá ese orden.

INTENCIÓN (puede estar vacía; si existe, el título y los cambios deben reflejarla):
{intent}

DIFF:
{diff}
`
)

// DefaultCommitTemplate returns the built-in template for a record shape. It
// documents the JSON contract and, for the categorized shape, the category
// enumeration. Unknown languages fall back to English.
func DefaultCommitTemplate(shape models.RecordShape, lang string) string {
	var tmpl string
	switch {
	case lang == "es" && shape.Categorized:
		tmpl = commitPromptCategorizedES
	case lang == "es":
		tmpl = commitPromptSimpleES
	case shape.Categorized:
		tmpl = commitPromptCategorizedEN
	default:
		tmpl = commitPromptSimpleEN
	}

	keys := make([]string, 0, 3)
	for _, f := range shape.Required() {
		keys = append(keys, "`"+f+"`")
	}

	out, err := RenderPrompt("commit", tmpl, PromptData{
		Categories: strings.Join(models.CategoryNames(), "/"),
		Keys:       strings.Join(keys, ", "),
	})
	if err != nil {
		// the built-in templates are constants; a failure here is a programming error
		panic(err)
	}
	return out
}

// PromptComposer builds the user message sent to the model.
type PromptComposer struct {
	Shape    models.RecordShape
	Language string
}

// Compose fills template with the diff and the intent hint. A blank template
// selects the built-in one. Without a {diff} marker the diff is appended as a
// DIFF block; without an {intent} marker a non-blank hint is appended as an
// INTENT_HINT section.
func (c PromptComposer) Compose(diff, tmpl, intent string) string {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultCommitTemplate(c.Shape, c.Language)
	}

	hasDiff := strings.Contains(tmpl, DiffPlaceholder)
	hasIntent := strings.Contains(tmpl, IntentPlaceholder)

	// single pass, so markers inside the diff or the hint are left alone
	prompt := strings.NewReplacer(DiffPlaceholder, diff, IntentPlaceholder, intent).Replace(tmpl)

	if !hasDiff {
		prompt += "\n\nDIFF:\n" + diff
	}
	if !hasIntent && strings.TrimSpace(intent) != "" {
		prompt += "\n\nINTENT_HINT:\n" + intent +
			"\n\nReflect this intent in the commit title and the list of changes."
	}

	return prompt
}
