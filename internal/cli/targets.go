package cli

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

// isTTY returns true if we can prompt interactively
func isTTY() bool {
	return (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
}

// confirmTargets lets the user narrow the selected target branches. Off a
// TTY (CI runs) the computed set passes through unchanged.
func confirmTargets(targets []string) ([]string, error) {
	if !isTTY() {
		return targets, nil
	}

	selected := make([]string, len(targets))
	copy(selected, targets)

	prompt := &survey.MultiSelect{
		Message: "Cherry-pick onto these branches:",
		Options: targets,
		Default: selected,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, fmt.Errorf("target selection aborted: %w", err)
	}
	return selected, nil
}
