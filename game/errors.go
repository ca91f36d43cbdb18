package game

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrInsufficientPlayers = errors.New("need at least 2 players to start the game")
	ErrNotHost             = errors.New("only the host can start the game")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrStoreUnavailable    = errors.New("room store unavailable")
)
