package commit

import (
	"strings"

	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
	"github.com/gitwhisper/gitwhisper/internal/models"
)

// Format renders a message as
//
//	<category>: <title>
//
//	- <change>
//	- <change>
//
// The category prefix only appears for the categorized shape and the change
// list is omitted when empty. There is no trailing newline.
func Format(msg models.CommitMessage, shape models.RecordShape) string {
	var b strings.Builder
	if shape.Categorized && msg.Category != "" {
		b.WriteString(string(msg.Category))
		b.WriteString(": ")
	}
	b.WriteString(strings.TrimSpace(msg.Title))

	changes := NormalizeChanges(msg.Changes)
	if len(changes) == 0 {
		return b.String()
	}

	b.WriteString("\n")
	for _, c := range changes {
		b.WriteString("\n- ")
		b.WriteString(c)
	}
	return b.String()
}

// Split separates a message into the subject passed to the first -m of git
// commit and the body passed to the second one. A single blank line after the
// subject is dropped.
func Split(message string) (subject, body string, err error) {
	lines := strings.Split(strings.ReplaceAll(message, "\r\n", "\n"), "\n")

	subject = strings.TrimSpace(lines[0])
	if subject == "" {
		return "", "", domainErrors.ErrEmptySubject
	}

	rest := lines[1:]
	if len(rest) > 0 && strings.TrimSpace(rest[0]) == "" {
		rest = rest[1:]
	}
	body = strings.TrimRight(strings.Join(rest, "\n"), " \t\n")

	return subject, body, nil
}
