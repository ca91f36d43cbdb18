package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Saadia-Asghar/Skribble/game"
	"github.com/Saadia-Asghar/Skribble/shared/logger"
)

// roomChannel is the pg_notify channel a rooms-table trigger fires on
// every insert or update, carrying the room id as payload.
const roomChannel = "room_changes"

type pgSubscriber struct {
	onChange func(game.Room)
	onError  func(error)
}

// PostgresRoomStore keeps each room as one jsonb document in the rooms
// table. Change notifications ride Postgres LISTEN/NOTIFY: a dedicated
// listener connection receives the room id, re-reads the document and
// fans the snapshot out, which preserves write order per room.
type PostgresRoomStore struct {
	pool *pgxpool.Pool

	locker  sync.Mutex
	subs    map[string]map[int]pgSubscriber
	nextSub int

	cancelListen context.CancelFunc
	listenDone   chan struct{}
}

var _ game.RoomRepository = (*PostgresRoomStore)(nil)

func NewPostgresRoomStore(ctx context.Context, connString string) (*PostgresRoomStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", game.ErrStoreUnavailable, err)
	}

	listenCtx, cancel := context.WithCancel(context.Background())
	store := &PostgresRoomStore{
		pool:         pool,
		subs:         make(map[string]map[int]pgSubscriber),
		cancelListen: cancel,
		listenDone:   make(chan struct{}),
	}
	go store.listen(listenCtx)
	return store, nil
}

func (s *PostgresRoomStore) Close() {
	s.cancelListen()
	<-s.listenDone
	s.pool.Close()
}

func (s *PostgresRoomStore) listen(ctx context.Context) {
	defer close(s.listenDone)
	for ctx.Err() == nil {
		if err := s.listenOnce(ctx); err != nil && ctx.Err() == nil {
			logger.Warningf("room change listener lost: %v, reconnecting", err)
			s.notifyError(fmt.Errorf("%w: %w", game.ErrStoreUnavailable, err))
			time.Sleep(time.Second)
		}
	}
}

func (s *PostgresRoomStore) listenOnce(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+roomChannel); err != nil {
		return err
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		roomID := notification.Payload

		s.locker.Lock()
		listeners := make([]pgSubscriber, 0, len(s.subs[roomID]))
		for _, sub := range s.subs[roomID] {
			listeners = append(listeners, sub)
		}
		s.locker.Unlock()
		if len(listeners) == 0 {
			continue
		}

		room, err := s.Room(ctx, roomID)
		if err != nil {
			continue
		}
		for _, sub := range listeners {
			sub.onChange(room.Clone())
		}
	}
}

func (s *PostgresRoomStore) notifyError(err error) {
	s.locker.Lock()
	defer s.locker.Unlock()
	for _, roomSubs := range s.subs {
		for _, sub := range roomSubs {
			if sub.onError != nil {
				sub.onError(err)
			}
		}
	}
}

func (s *PostgresRoomStore) CreateRoom(ctx context.Context, hostName string) (string, string, error) {
	roomID := newRoomCode()
	playerID := uuid.NewString()

	room := game.Room{
		RoomID:   roomID,
		Status:   game.StatusWaiting,
		DrawerID: playerID,
		Round:    1,
		TimeLeft: game.DefaultDrawTime,
		Players: map[string]game.Player{
			playerID: {ID: playerID, Name: hostName, IsHost: true, JoinedAt: time.Now().UnixMilli()},
		},
		Strokes:    map[string]game.Stroke{},
		Guesses:    map[string]game.Guess{},
		Chat:       map[string]game.ChatMessage{},
		HintsQueue: []string{},
	}
	doc, err := json.Marshal(room)
	if err != nil {
		return "", "", err
	}

	if _, err := s.pool.Exec(ctx, "INSERT INTO rooms (id, doc) VALUES ($1, $2)", roomID, doc); err != nil {
		return "", "", s.wrapError(err)
	}
	return roomID, playerID, nil
}

func (s *PostgresRoomStore) JoinRoom(ctx context.Context, roomID, name string) (string, error) {
	playerID := uuid.NewString()
	err := s.mutate(ctx, roomID, func(room *game.Room) {
		room.Players[playerID] = game.Player{ID: playerID, Name: name, JoinedAt: time.Now().UnixMilli()}
	})
	if err != nil {
		return "", err
	}
	return playerID, nil
}

func (s *PostgresRoomStore) LeaveRoom(ctx context.Context, roomID, playerID string) error {
	return s.mutate(ctx, roomID, func(room *game.Room) {
		delete(room.Players, playerID)
	})
}

func (s *PostgresRoomStore) Room(ctx context.Context, roomID string) (game.Room, error) {
	var doc []byte
	row := s.pool.QueryRow(ctx, "SELECT doc FROM rooms WHERE id = $1", roomID)
	if err := row.Scan(&doc); err != nil {
		return game.Room{}, s.wrapError(err)
	}
	var room game.Room
	if err := json.Unmarshal(doc, &room); err != nil {
		return game.Room{}, fmt.Errorf("%w: corrupt room document: %w", game.ErrStoreUnavailable, err)
	}
	return room, nil
}

func (s *PostgresRoomStore) Subscribe(roomID string, onChange func(game.Room), onError func(error)) (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	room, err := s.Room(ctx, roomID)
	if err != nil {
		return nil, err
	}

	s.locker.Lock()
	if s.subs[roomID] == nil {
		s.subs[roomID] = make(map[int]pgSubscriber)
	}
	id := s.nextSub
	s.nextSub++
	s.subs[roomID][id] = pgSubscriber{onChange: onChange, onError: onError}
	s.locker.Unlock()

	// Initial snapshot, matching the subscribe-then-deliver contract.
	onChange(room)

	unsubscribe := func() {
		s.locker.Lock()
		defer s.locker.Unlock()
		delete(s.subs[roomID], id)
	}
	return unsubscribe, nil
}

func (s *PostgresRoomStore) ApplyStart(ctx context.Context, roomID, word string, _ int, drawerID string, settings game.Settings, hints []string) error {
	return s.mutate(ctx, roomID, func(room *game.Room) {
		announcement := game.StartDocument(room, word, drawerID, settings, hints, time.Now().UnixMilli())
		room.Chat[uuid.NewString()] = announcement
	})
}

func (s *PostgresRoomStore) ApplyNextTurn(ctx context.Context, roomID, drawerID, word string, hints []string) error {
	return s.mutate(ctx, roomID, func(room *game.Room) {
		announcement := game.NextTurnDocument(room, drawerID, word, hints, time.Now().UnixMilli())
		room.Chat[uuid.NewString()] = announcement
	})
}

func (s *PostgresRoomStore) ApplyGameOver(ctx context.Context, roomID string) error {
	return s.mutate(ctx, roomID, func(room *game.Room) {
		game.GameOverDocument(room)
	})
}

func (s *PostgresRoomStore) ApplyGuess(ctx context.Context, roomID string, guess game.Guess) error {
	return s.setDocKey(ctx, roomID, "guesses", uuid.NewString(), guess)
}

func (s *PostgresRoomStore) ApplyChat(ctx context.Context, roomID string, message game.ChatMessage) error {
	return s.setDocKey(ctx, roomID, "chat", uuid.NewString(), message)
}

func (s *PostgresRoomStore) ApplyStroke(ctx context.Context, roomID string, stroke game.Stroke) (string, error) {
	strokeID := uuid.NewString()
	if err := s.setDocKey(ctx, roomID, "strokes", strokeID, stroke); err != nil {
		return "", err
	}
	return strokeID, nil
}

func (s *PostgresRoomStore) RedoStroke(ctx context.Context, roomID, strokeID string, stroke game.Stroke) error {
	return s.setDocKey(ctx, roomID, "strokes", strokeID, stroke)
}

func (s *PostgresRoomStore) UndoStroke(ctx context.Context, roomID, strokeID string) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE rooms SET doc = doc #- ARRAY['strokes', $2] WHERE id = $1",
		roomID, strokeID)
	if err != nil {
		return s.wrapError(err)
	}
	if tag.RowsAffected() == 0 {
		return game.ErrRoomNotFound
	}
	return nil
}

func (s *PostgresRoomStore) ClearStrokes(ctx context.Context, roomID string) error {
	return s.setDocField(ctx, roomID, "strokes", map[string]game.Stroke{})
}

// ApplyScoreDelta is a single-statement jsonb increment, so two awards
// landing in the same tick can never overwrite each other.
func (s *PostgresRoomStore) ApplyScoreDelta(ctx context.Context, roomID, playerID string, delta int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE rooms
		 SET doc = jsonb_set(doc, ARRAY['players', $2, 'score'],
		 	to_jsonb(COALESCE((doc #>> ARRAY['players', $2, 'score'])::int, 0) + $3))
		 WHERE id = $1 AND doc -> 'players' ? $2`,
		roomID, playerID, delta)
	if err != nil {
		return s.wrapError(err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish an unknown room from an already-departed player.
		if _, roomErr := s.Room(ctx, roomID); roomErr != nil {
			return roomErr
		}
	}
	return nil
}

func (s *PostgresRoomStore) ApplyTimeLeft(ctx context.Context, roomID string, seconds int) error {
	return s.setDocField(ctx, roomID, "timeLeft", seconds)
}

func (s *PostgresRoomStore) ApplyMaskedWord(ctx context.Context, roomID, mask string) error {
	return s.setDocField(ctx, roomID, "maskedWord", mask)
}

func (s *PostgresRoomStore) ApplyHostHeartbeat(ctx context.Context, roomID string, unixMilli int64) error {
	return s.setDocField(ctx, roomID, "lastHostHeartbeat", unixMilli)
}

// setDocField replaces one top-level field of the room document.
func (s *PostgresRoomStore) setDocField(ctx context.Context, roomID, field string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		"UPDATE rooms SET doc = jsonb_set(doc, ARRAY[$2], $3::jsonb) WHERE id = $1",
		roomID, field, encoded)
	if err != nil {
		return s.wrapError(err)
	}
	if tag.RowsAffected() == 0 {
		return game.ErrRoomNotFound
	}
	return nil
}

// setDocKey inserts one entry into a top-level map field under a fresh
// id, which makes the write idempotent-by-id.
func (s *PostgresRoomStore) setDocKey(ctx context.Context, roomID, field, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		"UPDATE rooms SET doc = jsonb_set(doc, ARRAY[$2, $3], $4::jsonb) WHERE id = $1",
		roomID, field, key, encoded)
	if err != nil {
		return s.wrapError(err)
	}
	if tag.RowsAffected() == 0 {
		return game.ErrRoomNotFound
	}
	return nil
}

// mutate runs a read-modify-write of the whole document inside a
// transaction, with the row locked. Only host-written composites go
// through here; last write wins is fine because only the host writes
// them.
func (s *PostgresRoomStore) mutate(ctx context.Context, roomID string, fn func(*game.Room)) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return s.wrapError(err)
	}
	defer tx.Rollback(ctx)

	var doc []byte
	row := tx.QueryRow(ctx, "SELECT doc FROM rooms WHERE id = $1 FOR UPDATE", roomID)
	if err := row.Scan(&doc); err != nil {
		return s.wrapError(err)
	}

	var room game.Room
	if err := json.Unmarshal(doc, &room); err != nil {
		return fmt.Errorf("%w: corrupt room document: %w", game.ErrStoreUnavailable, err)
	}
	fn(&room)

	updated, err := json.Marshal(room)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "UPDATE rooms SET doc = $2 WHERE id = $1", roomID, updated); err != nil {
		return s.wrapError(err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresRoomStore) wrapError(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return game.ErrRoomNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", game.ErrStoreUnavailable, err)
	}
}
