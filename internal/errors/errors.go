package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeGit           ErrorType = "GIT"
	TypeTransport     ErrorType = "TRANSPORT"
	TypeFraming       ErrorType = "FRAMING"
	TypeSchema        ErrorType = "SCHEMA"
	TypeEditor        ErrorType = "EDITOR"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
		if status, ok := e.Context["status"].(int); ok && status != 0 {
			msg += fmt.Sprintf(" [HTTP %d]", status)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same kind of AppError. Derived errors built
// with WithError/WithContext still match the sentinel they came from.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Git errors
var (
	ErrNotInGitRepo = NewAppError(TypeGit, "Not in a git repository", nil).
			WithSuggestion("Run git-whisper from inside a repository, or initialize one: git init")

	ErrGetDiff = NewAppError(TypeGit, "Failed to get diff", nil).
			WithSuggestion("Check if you have staged changes: git status")

	ErrNoDiff = NewAppError(TypeGit, "No staged diff found; cannot generate a commit message", nil).
			WithSuggestion("Stage your changes first: git add <files>")

	ErrCreateCommit = NewAppError(TypeGit, "Failed to create commit", nil).
			WithSuggestion("Ensure git user is configured:\n   git config --global user.name \"Your Name\"\n   git config --global user.email \"your@email.com\"")

	ErrEmptySubject = NewAppError(TypeGit, "Commit subject (first line) is empty", nil).
			WithSuggestion("Edit the message so that its first line is not blank")
)

// Model endpoint errors
var (
	ErrTransport = NewAppError(TypeTransport, "Chat request to the model endpoint failed", nil).
			WithSuggestion("Make sure Ollama is running (ollama serve) and the model is pulled: ollama pull <model>")

	ErrFraming = NewAppError(TypeFraming, "Malformed line in the model stream", nil).
			WithSuggestion("The endpoint returned something other than newline-delimited JSON; check the endpoint URL")

	ErrSchema = NewAppError(TypeSchema, "Could not decode model output", nil).
			WithSuggestion("Try again, or pick a model with structured output support: git-whisper config set model <name>")
)

// Configuration errors
var (
	ErrConfigInvalid = NewAppError(TypeConfiguration, "Configuration is invalid", nil).
				WithSuggestion("Inspect it with: git-whisper config show")

	ErrConfigWrite = NewAppError(TypeConfiguration, "Failed to save configuration", nil).
			WithSuggestion("Check the permissions of ~/.git-whisper")
)

var (
	ErrEditor = NewAppError(TypeEditor, "Failed to edit the commit message", nil).
		WithSuggestion("Set $EDITOR (e.g. export EDITOR=\"code --wait\")")
)
