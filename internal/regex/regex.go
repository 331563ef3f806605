package regex

import "regexp"

var (
	// ConventionalPrefix matches a "type(scope)!: subject" header. Group 1 is
	// the type, group 3 the scope and group 5 the subject.
	ConventionalPrefix = regexp.MustCompile(`^([A-Za-z]+)(\(([^)]*)\))?(!)?:\s*(.+)$`)

	// BulletItem matches a list bullet followed by whitespace, or a bare bullet.
	// "--flag" and "*ptr" are not bullets.
	BulletItem = regexp.MustCompile(`^[-*•](\s+|$)`)

	// NumberedItem matches an ordered list marker such as "1. " or "2) ".
	NumberedItem = regexp.MustCompile(`^\d+[.)]\s+`)
)
