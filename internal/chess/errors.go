package chess

import "errors"

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrNoPiece           = errors.New("no piece at from square")
	ErrWrongTurn         = errors.New("not your turn")
	ErrIllegalMove       = errors.New("illegal move")
	ErrSelfCheck         = errors.New("move leaves king in check")
	ErrInvalidPromotion  = errors.New("invalid promotion")
)
