package errors

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrIllegalMove     = errors.New("illegal move")
	ErrNoMoves         = errors.New("no moves to undo")
	ErrNothingToRedo   = errors.New("no moves to redo")
	ErrNoSetup         = errors.New("no setup to revert")
	ErrGameEnded       = errors.New("game has ended")
	ErrRecordNotFound  = errors.New("game record not found")
	ErrCorruptRecord   = errors.New("corrupt game record")
	ErrInternal        = errors.New("internal error")
)
