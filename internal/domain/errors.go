package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrNotHost          = errors.New("only the host can perform this action")
	ErrWrongPhase       = errors.New("invalid action for current phase")
	ErrWrongRound       = errors.New("round id does not match the current round")
	ErrAlreadySubmitted = errors.New("already submitted this round")
	ErrLetterAlreadySet = errors.New("letter already chosen for this round")
	ErrInvalidLetter    = errors.New("letter is not part of the room's alphabet")
)
