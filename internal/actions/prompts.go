package actions

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"stackit.dev/vbranch/internal/engine"
	"stackit.dev/vbranch/internal/tui"
)

// ErrInteractiveDisabled is returned when interactive prompts are disabled via VB_TEST_NO_INTERACTIVE
var ErrInteractiveDisabled = fmt.Errorf("interactive prompts are disabled (VB_TEST_NO_INTERACTIVE is set)")

// checkInteractiveAllowed returns an error if interactive mode is disabled for testing
func checkInteractiveAllowed() error {
	if os.Getenv("VB_TEST_NO_INTERACTIVE") != "" {
		return ErrInteractiveDisabled
	}
	if !tui.IsTTY() {
		return fmt.Errorf("no terminal available, pass --to")
	}
	return nil
}

// promptTargetBranch asks which branch to drop onto. The source branch is
// not offered.
func promptTargetBranch(branches []engine.VirtualBranch, sourceID, what string) (engine.VirtualBranch, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return engine.VirtualBranch{}, err
	}

	var options []string
	byName := make(map[string]engine.VirtualBranch)
	for _, b := range branches {
		if b.ID == sourceID {
			continue
		}
		options = append(options, b.Name)
		byName[b.Name] = b
	}
	if len(options) == 0 {
		return engine.VirtualBranch{}, fmt.Errorf("no other virtual branch to move %s to", what)
	}

	var selected string
	prompt := &survey.Select{
		Message: fmt.Sprintf("Move %s to which branch?", what),
		Options: options,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return engine.VirtualBranch{}, promptError(err)
	}
	return byName[selected], nil
}

// ErrPromptCanceled is returned when the user interrupts a prompt
var ErrPromptCanceled = errors.New("canceled")

// promptError maps an interrupted prompt to ErrPromptCanceled and keeps any
// other failure as the cause
func promptError(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrPromptCanceled
	}
	return fmt.Errorf("failed to prompt for a branch: %w", err)
}
