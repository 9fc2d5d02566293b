package internal

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrNotSeated        = errors.New("not seated in this room")
	ErrNotHost          = errors.New("only the host can do that")
	ErrNotDrawer        = errors.New("only the current drawer can do that")
	ErrRoomFull         = errors.New("room is full")
	ErrWrongPassword    = errors.New("wrong room password")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrGameInProgress   = errors.New("game already in progress")
	ErrAlreadyGuessed   = errors.New("already guessed the word this round")
	ErrCannotKickSelf   = errors.New("host cannot kick themselves")
	ErrEmptyMessage     = errors.New("message is empty")
	ErrMalformed        = errors.New("malformed message")
	ErrUnknownType      = errors.New("unknown message type")
	ErrRateLimited      = errors.New("too many messages")
)

// Error codes sent in the "error" reply.
const (
	CodeNotFound     = "not-found"
	CodeUnauthorized = "unauthorized"
	CodePrecondition = "precondition"
	CodeMalformed    = "malformed"
	CodeRateLimited  = "rate-limited"
	CodeInternal     = "internal"
)

// GameError pairs a failure with the stable code reported to the client.
type GameError struct {
	Code string
	Err  error
}

func (e *GameError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *GameError) Unwrap() error {
	return e.Err
}

// ErrorCode classifies err into one of the wire codes.
func ErrorCode(err error) string {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}

	switch {
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrPlayerNotFound), errors.Is(err, ErrNotSeated):
		return CodeNotFound
	case errors.Is(err, ErrNotHost), errors.Is(err, ErrNotDrawer):
		return CodeUnauthorized
	case errors.Is(err, ErrRoomFull),
		errors.Is(err, ErrWrongPassword),
		errors.Is(err, ErrNotEnoughPlayers),
		errors.Is(err, ErrGameInProgress),
		errors.Is(err, ErrAlreadyGuessed),
		errors.Is(err, ErrCannotKickSelf),
		errors.Is(err, ErrEmptyMessage):
		return CodePrecondition
	case errors.Is(err, ErrMalformed), errors.Is(err, ErrUnknownType):
		return CodeMalformed
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	}
	return CodeInternal
}

// ToErrorData builds the payload of an "error" reply.
func ToErrorData(err error) ErrorData {
	msg := err.Error()
	var ge *GameError
	if errors.As(err, &ge) {
		msg = ge.Err.Error()
	}
	return ErrorData{Code: ErrorCode(err), Message: msg}
}
