package tracker

// ChangeHook reacts to changes of an event's preferred solutions.
// Hooks are called synchronously while the tracker is locked: they must return quickly
// and must not call back into the tracker.
//
//go:generate mockgen -source=hooks.go -destination=../mocks/hooks.go -package=mocks -mock_names=ChangeHook=MockChangeHook
type ChangeHook interface {
	ChangedOrigin(st *EventState, previousID, currentID string)
	ChangedMagnitude(st *EventState, previousID, currentID string)
	ChangedFocalMechanism(st *EventState, previousID, currentID string)
}

// HookFuncs adapts plain functions to a ChangeHook; nil functions are skipped
type HookFuncs struct {
	Origin         func(st *EventState, previousID, currentID string)
	Magnitude      func(st *EventState, previousID, currentID string)
	FocalMechanism func(st *EventState, previousID, currentID string)
}

func (h HookFuncs) ChangedOrigin(st *EventState, previousID, currentID string) {
	if h.Origin != nil {
		h.Origin(st, previousID, currentID)
	}
}

func (h HookFuncs) ChangedMagnitude(st *EventState, previousID, currentID string) {
	if h.Magnitude != nil {
		h.Magnitude(st, previousID, currentID)
	}
}

func (h HookFuncs) ChangedFocalMechanism(st *EventState, previousID, currentID string) {
	if h.FocalMechanism != nil {
		h.FocalMechanism(st, previousID, currentID)
	}
}
