package common

import (
	"errors"
	"fmt"
	"strings"

	"wagerledger/service"
)

// BotError carries a message that is safe to show in Discord alongside the
// underlying error that gets logged
type BotError struct {
	Message string
	Err     error
	system  bool
}

func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BotError) Unwrap() error {
	return e.Err
}

// IsSystem reports whether the error is an internal failure rather than a user mistake
func (e *BotError) IsSystem() bool {
	return e.system
}

// NewUserError describes something the user can fix
func NewUserError(message string, err error) *BotError {
	return &BotError{Message: message, Err: err}
}

// NewSystemError hides err behind a generic message
func NewSystemError(err error) *BotError {
	return &BotError{
		Message: "Something went wrong on our side. Please try again.",
		Err:     err,
		system:  true,
	}
}

// ClassifyError maps service errors to what the user should read
func ClassifyError(err error) *BotError {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr
	}

	switch {
	case errors.Is(err, service.ErrInsufficientFunds):
		return NewUserError("Insufficient balance for this bet.", err)
	case errors.Is(err, service.ErrWalletNotFound):
		return NewUserError("You don't have a wallet yet. Use /balance to open one.", err)
	case errors.Is(err, service.ErrNoActiveGame):
		return NewUserError("You have no hand in progress. Start one with /blackjack start.", err)
	case errors.Is(err, service.ErrActiveGameExists):
		return NewUserError("You already have a hand in progress. Use /blackjack resume.", err)
	case errors.Is(err, service.ErrInvalidBet):
		// the wrapped text carries the reason
		return NewUserError(fmt.Sprintf("Invalid bet: %s", reasonOf(err)), err)
	default:
		return NewSystemError(err)
	}
}

// reasonOf strips everything up to and including the ErrInvalidBet text
func reasonOf(err error) string {
	msg := err.Error()
	marker := service.ErrInvalidBet.Error() + ": "
	if idx := strings.LastIndex(msg, marker); idx >= 0 {
		return msg[idx+len(marker):]
	}
	return msg
}
