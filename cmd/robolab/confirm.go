// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/huh"
)

// confirmPrompt asks a yes/no question on the terminal. The packaging
// pipeline receives it as its ConfirmFunc; --yes bypasses it entirely.
func confirmPrompt(title, description string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}
