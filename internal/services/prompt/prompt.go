// Package prompt abstracts interactive terminal prompting so resolution and
// acquisition logic stays testable without a real terminal.
package prompt

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNonInteractive is returned whenever a prompt would be needed but the run
// is non-interactive.
var ErrNonInteractive = errors.New("input required but running non-interactively")

// Prompter is the capability interface for asking the user things.
type Prompter interface {
	// Text asks for a line of text, pre-filled with prefill; confirming the
	// empty prefill keeps it.
	Text(title, prefill string) (string, error)
	// Password asks for a secret without echoing it.
	Password(title string) (string, error)
	// Confirm asks a yes/no question.
	Confirm(title string, def bool) (bool, error)
	// Select asks the user to pick one of options.
	Select(title string, options []string) (string, error)
}

// StdinIsTerminal reports whether stdin is attached to a terminal; callers
// use it to pick the console or non-interactive prompter by default.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Console prompts on the terminal.
type Console struct{}

var _ Prompter = Console{}

// Text implements Prompter.
func (Console) Text(title, prefill string) (string, error) {
	value := prefill
	err := huh.NewInput().Title(title).Value(&value).Run()
	return value, err
}

// Password implements Prompter.
func (Console) Password(title string) (string, error) {
	var value string
	err := huh.NewInput().Title(title).EchoMode(huh.EchoModePassword).Value(&value).Run()
	return value, err
}

// Confirm implements Prompter.
func (Console) Confirm(title string, def bool) (bool, error) {
	value := def
	err := huh.NewConfirm().Title(title).Value(&value).Run()
	return value, err
}

// Select implements Prompter.
func (Console) Select(title string, options []string) (string, error) {
	var value string
	err := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&value).
		Run()
	return value, err
}

// NonInteractive fails every prompt; it backs runs where no terminal is
// available or --non-interactive was given.
type NonInteractive struct{}

var _ Prompter = NonInteractive{}

// Text implements Prompter.
func (NonInteractive) Text(title, prefill string) (string, error) {
	return "", ErrNonInteractive
}

// Password implements Prompter.
func (NonInteractive) Password(title string) (string, error) {
	return "", ErrNonInteractive
}

// Confirm implements Prompter.
func (NonInteractive) Confirm(title string, def bool) (bool, error) {
	return false, ErrNonInteractive
}

// Select implements Prompter.
func (NonInteractive) Select(title string, options []string) (string, error) {
	return "", ErrNonInteractive
}
