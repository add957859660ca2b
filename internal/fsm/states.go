// Package fsm names the conversation states of a stats session. Nothing is
// persisted: the state entered after an event is derived from the mode and
// the event alone.
package fsm

import "github.com/ad/go-telegram-progress-stats/internal/models"

type State string

const (
	StateAwaitingCommand State = "awaiting_command"
	StateMenuShown       State = "menu_shown"
	StateDetailShown     State = "detail_shown"
)

type Event string

const (
	EventStart  Event = "start"
	EventStats  Event = "stats"
	EventNoData Event = "no_data"
	EventSelect Event = "select"
)

// Next returns the state a chat is in once the event has been handled.
func Next(mode models.StatsMode, event Event) State {
	switch event {
	case EventStats:
		if mode == models.ModeMenu {
			return StateMenuShown
		}
		return StateDetailShown
	case EventSelect:
		return StateDetailShown
	}
	return StateAwaitingCommand
}
