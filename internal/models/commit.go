package models

import "strings"

// Category is the kind label of a commit, the closed set the model has to pick from.
type Category string

const (
	CategoryFix      Category = "fix"
	CategoryFeat     Category = "feat"
	CategoryDocs     Category = "docs"
	CategoryStyle    Category = "style"
	CategoryRefactor Category = "refactor"
	CategoryPerf     Category = "perf"
	CategoryTest     Category = "test"
	CategoryBuild    Category = "build"
	CategoryCI       Category = "ci"
	CategoryChore    Category = "chore"
)

// Categories returns the closed enumeration in the order it is presented to the model.
func Categories() []Category {
	return []Category{
		CategoryFix,
		CategoryFeat,
		CategoryDocs,
		CategoryStyle,
		CategoryRefactor,
		CategoryPerf,
		CategoryTest,
		CategoryBuild,
		CategoryCI,
		CategoryChore,
	}
}

func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryNames returns the enumeration as plain strings.
func CategoryNames() []string {
	cats := Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return names
}

const (
	FieldCategory = "category"
	FieldTitle    = "title"
	FieldChanges  = "changes"
)

// RecordShape selects which fields the model must produce. It drives both the
// structured-output descriptor sent with the request and the fields required
// when the answer is parsed.
type RecordShape struct {
	Categorized bool
}

var (
	SimpleShape      = RecordShape{Categorized: false}
	CategorizedShape = RecordShape{Categorized: true}
)

// Required lists the mandatory fields in the order the model should emit them.
func (s RecordShape) Required() []string {
	if s.Categorized {
		return []string{FieldCategory, FieldTitle, FieldChanges}
	}
	return []string{FieldTitle, FieldChanges}
}

func (s RecordShape) String() string {
	return strings.Join(s.Required(), "+")
}

// CommitMessage is the decoded structured answer of the model.
type CommitMessage struct {
	Category Category
	Title    string
	Changes  []string
}
