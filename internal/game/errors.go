package game

import (
	"errors"
	"fmt"
)

// Kind is a stable, machine-checkable error category. Every rule violation
// the engine can produce maps to exactly one Kind; infrastructure failures
// (storage, network) are never wrapped in a RuleError and keep their own
// error chains.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindForbidden           Kind = "forbidden"
	KindInvalidState        Kind = "invalid_state"
	KindGameNotActive       Kind = "game_not_active"
	KindMustSelectDeckFirst Kind = "must_select_deck_first"
	KindAlreadyDrawn        Kind = "already_drawn"
	KindAlreadyPlayed       Kind = "already_played"
	KindMustDrawFirst       Kind = "must_draw_first"
	KindInvalidCardIndex    Kind = "invalid_card_index"
	KindGameAlreadyEnded    Kind = "game_already_ended"
	KindDeckEmpty           Kind = "deck_empty"
	KindInvalidTransition   Kind = "invalid_transition"
	KindInvalidDeck         Kind = "invalid_deck"
)

// RuleError is an expected, caller-correctable rejection. The engine never
// retries these; they surface to the client with the Kind intact.
type RuleError struct {
	Kind    Kind
	Message string
}

func (e *RuleError) Error() string { return e.Message }

func errf(kind Kind, format string, args ...interface{}) *RuleError {
	return &RuleError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err. ok is false for nil errors and for
// infrastructure errors that carry no rule kind.
func KindOf(err error) (Kind, bool) {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}
