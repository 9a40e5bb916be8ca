// Package huhprompter implements editor.Prompter with terminal forms.
package huhprompter

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/colonyops/ghostmark/internal/editor"
)

// Prompter asks for input with a huh form. Aborting the form (esc,
// ctrl+c) reports cancellation, not an error.
type Prompter struct{}

var _ editor.Prompter = Prompter{}

// Input implements editor.Prompter.
func (Prompter) Input(ctx context.Context, prompt, placeholder string) (string, bool, error) {
	var value string
	err := huh.NewInput().
		Title(prompt).
		Placeholder(placeholder).
		Value(&value).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
