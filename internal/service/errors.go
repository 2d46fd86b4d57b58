package service

import (
	"errors"
	"fmt"

	"pokerleague/internal/ledger"
)

// ErrJackpotUpdateInFlight is returned when another jackpot write for the same
// season holds the season lock.
var ErrJackpotUpdateInFlight = errors.New("jackpot update already in flight for season")

// ValidationError rejects an operation before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func notFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

// fromLedger turns elimination ledger failures into validation errors.
func fromLedger(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ledger.ErrPositionMissing),
		errors.Is(err, ledger.ErrSamePlayerInSwap):
		return &ValidationError{Field: "position", Message: err.Error()}
	case errors.Is(err, ledger.ErrGameFinished):
		return &ValidationError{Field: "game", Message: err.Error()}
	case errors.Is(err, ledger.ErrPlayerNotInGame),
		errors.Is(err, ledger.ErrPlayerNotActive),
		errors.Is(err, ledger.ErrDuplicatePlayer),
		errors.Is(err, ledger.ErrSelfElimination),
		errors.Is(err, ledger.ErrNoPlayers),
		errors.Is(err, ledger.ErrNoActivePlayers):
		return &ValidationError{Field: "player_id", Message: err.Error()}
	}
	return err
}
