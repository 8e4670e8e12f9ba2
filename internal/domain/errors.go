package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCall      = errors.New("invalid call")
	ErrInvalidCallClass = errors.New("not a bid, pass, double or redouble")
	// ErrDuplicateCall is reserved; no rule currently produces it.
	ErrDuplicateCall  = errors.New("duplicate call")
	ErrInvalidAuction = errors.New("auction is not complete or was passed out")
	ErrInvalidPlay    = errors.New("invalid play")
)

var (
	ErrNoGame             = errors.New("no game in progress")
	ErrGameInProgress     = errors.New("game already in progress")
	ErrAuctionComplete    = errors.New("auction already complete")
	ErrPlayComplete       = errors.New("play already complete")
	ErrOutOfTurn          = errors.New("not your turn")
	ErrDummyCannotPlay    = errors.New("dummy cannot play")
	ErrUnknownSeat        = errors.New("unknown seat")
	ErrSeatTaken          = errors.New("seat already taken")
	ErrSeatVacant         = errors.New("seat is vacant")
	ErrClaimDuringAuction = errors.New("cannot claim during the auction")
	ErrInvalidClaim       = errors.New("invalid claim")
	ErrHandUnknown        = errors.New("hand not known")
	ErrNotReady           = errors.New("table not ready for the next game")
)

// GameError is the single error type surfaced by Game operations.
type GameError struct {
	Op  string
	Err error
}

func (e *GameError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *GameError) Unwrap() error { return e.Err }

func gameError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ge *GameError
	if errors.As(err, &ge) {
		return err
	}
	return &GameError{Op: op, Err: err}
}

// CardError reports a malformed card token.
type CardError struct {
	Token  string
	Reason string
}

func (e *CardError) Error() string {
	return fmt.Sprintf("card %q: %s", e.Token, e.Reason)
}

// CallError reports call text that could not be parsed.
type CallError struct {
	Text   string
	Reason string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("call %q: %s", e.Text, e.Reason)
}
