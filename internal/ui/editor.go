package ui

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
)

// runEditor starts the editor attached to the terminal and waits for it.
var runEditor = func(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

var lookPath = exec.LookPath

// EditorCommand resolves $EDITOR into a program and its arguments, so values
// like "code --wait" work. Falls back to nano, then vi (notepad on Windows).
func EditorCommand() (string, []string) {
	if fields := strings.Fields(os.Getenv("EDITOR")); len(fields) > 0 {
		return fields[0], fields[1:]
	}
	if runtime.GOOS == "windows" {
		return "notepad", nil
	}
	if _, err := lookPath("nano"); err == nil {
		return "nano", nil
	}
	return "vi", nil
}

// EditMessage opens initial in the user's editor and returns the saved text.
// The temporary file is removed in every case.
func EditMessage(initial string) (string, error) {
	tmpFile, err := os.CreateTemp("", "git-whisper-commitmsg-*.txt")
	if err != nil {
		return "", domainErrors.ErrEditor.WithError(err)
	}
	path := tmpFile.Name()
	defer func() {
		_ = os.Remove(path)
	}()

	if _, err := tmpFile.WriteString(initial); err != nil {
		_ = tmpFile.Close()
		return "", domainErrors.ErrEditor.WithError(err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", domainErrors.ErrEditor.WithError(err)
	}

	if err := EditFile(path); err != nil {
		return "", err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", domainErrors.ErrEditor.WithError(err)
	}

	return string(content), nil
}

// EditFile opens path in the user's editor and waits for it to exit.
func EditFile(path string) error {
	name, args := EditorCommand()
	if err := runEditor(name, append(args, path)...); err != nil {
		return domainErrors.ErrEditor.WithError(err).WithContext("editor", name)
	}
	return nil
}
