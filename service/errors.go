package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientFunds is returned when a wallet cannot cover a stake or withdrawal
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrWalletNotFound is returned when the user has no wallet
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrNoActiveGame is returned when a blackjack step targets no ACTIVE game
	ErrNoActiveGame = errors.New("no active game")

	// ErrActiveGameExists is returned when starting blackjack while a round is in progress
	ErrActiveGameExists = errors.New("active game already exists")

	// ErrInvalidBet is returned for malformed stakes or bet selections
	ErrInvalidBet = errors.New("invalid bet")

	// ErrStoreFailure wraps every persistence error surfaced by the services
	ErrStoreFailure = errors.New("store failure")
)

// storeError tags err as a store failure unless it already carries a domain sentinel
func storeError(action string, err error) error {
	for _, sentinel := range []error{
		ErrInsufficientFunds,
		ErrWalletNotFound,
		ErrNoActiveGame,
		ErrActiveGameExists,
		ErrInvalidBet,
		ErrStoreFailure,
	} {
		if errors.Is(err, sentinel) {
			return fmt.Errorf("failed to %s: %w", action, err)
		}
	}
	return fmt.Errorf("failed to %s: %w: %w", action, ErrStoreFailure, err)
}

// invalidBet builds an ErrInvalidBet with a user-facing reason
func invalidBet(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidBet, fmt.Sprintf(format, args...))
}
