package ui

import "github.com/bamsammich/treecopy/internal/event"

// quietPresenter drains events and produces no output. Errors still reach
// the user through the command's exit status.
type quietPresenter struct{}

func (quietPresenter) Run(events <-chan event.Event) error {
	for range events { //nolint:revive // drain
	}
	return nil
}

func (quietPresenter) Summary() string {
	return ""
}
