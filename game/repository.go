package game

import "context"

// RoomRepository is the narrow boundary to the shared mutable room
// document. It is the only collaborator allowed to mutate a room; the
// session state machine only ever issues intents against it. Mutations
// are fire-and-forget from the engine's perspective: callers never wait
// for their own write to round-trip, they rely on the subscription stream
// for the next authoritative view.
//
// Implementations must keep ApplyScoreDelta atomic (it is the one field
// written by multiple actors concurrently) and must deliver change
// notifications in write order per room.
type RoomRepository interface {
	// CreateRoom initializes a room in waiting status; the creator
	// becomes the host, and the host role is never transferred.
	CreateRoom(ctx context.Context, hostName string) (roomID, hostPlayerID string, err error)
	// JoinRoom adds a player; ErrRoomNotFound when the code is unknown.
	JoinRoom(ctx context.Context, roomID, name string) (playerID string, err error)
	LeaveRoom(ctx context.Context, roomID, playerID string) error
	Room(ctx context.Context, roomID string) (Room, error)

	// Subscribe delivers the full current room snapshot on every change
	// until the returned unsubscribe func is called.
	Subscribe(roomID string, onChange func(Room), onError func(error)) (unsubscribe func(), err error)

	// ApplyStart commits a StartIntent: status playing, first drawer and
	// word, totalTurns = playerCount x rounds, currentTurn 1, fresh
	// timer and mask, cleared strokes/guesses/chat, plus a system
	// announcement.
	ApplyStart(ctx context.Context, roomID, word string, difficulty int, drawerID string, settings Settings, hints []string) error
	// ApplyNextTurn rotates the turn: new drawer and word, reset timer,
	// cleared strokes/guesses, currentTurn+1, "is drawing now!"
	// announcement.
	ApplyNextTurn(ctx context.Context, roomID, drawerID, word string, hints []string) error
	// ApplyGameOver bumps currentTurn past totalTurns exactly once so
	// the derived game-over predicate holds; idempotent afterwards.
	ApplyGameOver(ctx context.Context, roomID string) error

	ApplyGuess(ctx context.Context, roomID string, guess Guess) error
	ApplyChat(ctx context.Context, roomID string, message ChatMessage) error

	// ApplyStroke appends under a generated id and returns it.
	ApplyStroke(ctx context.Context, roomID string, stroke Stroke) (strokeID string, err error)
	// RedoStroke re-inserts a previously undone stroke under its original
	// id, which keeps the operation idempotent-by-id.
	RedoStroke(ctx context.Context, roomID, strokeID string, stroke Stroke) error
	UndoStroke(ctx context.Context, roomID, strokeID string) error
	ClearStrokes(ctx context.Context, roomID string) error

	// ApplyScoreDelta atomically increments a player's score.
	ApplyScoreDelta(ctx context.Context, roomID, playerID string, delta int) error
	ApplyTimeLeft(ctx context.Context, roomID string, seconds int) error
	ApplyMaskedWord(ctx context.Context, roomID, mask string) error
	// ApplyHostHeartbeat refreshes lastHostHeartbeat; nothing consumes it
	// yet, it only makes a stalled host detectable.
	ApplyHostHeartbeat(ctx context.Context, roomID string, unixMilli int64) error
}
