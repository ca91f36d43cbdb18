package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Saadia-Asghar/Skribble/game"
)

const snapshotBuffer = 128

type memorySubscriber struct {
	snapshots chan game.Room
	closed    bool
}

// MemoryRoomStore keeps every room document in process memory. It is the
// development stand-in for the hosted store: same snapshot-per-change
// subscription contract, same write-order delivery per room, no
// persistence.
type MemoryRoomStore struct {
	locker  sync.Mutex
	rooms   map[string]*game.Room
	subs    map[string]map[int]*memorySubscriber
	nextSub int
	joinSeq int64
}

func NewMemoryRoomStore() *MemoryRoomStore {
	return &MemoryRoomStore{
		rooms: make(map[string]*game.Room),
		subs:  make(map[string]map[int]*memorySubscriber),
	}
}

var _ game.RoomRepository = (*MemoryRoomStore)(nil)

// newRoomCode derives a short shareable code the way the original did:
// the first six hex chars of a UUID, uppercased.
func newRoomCode() string {
	return strings.ToUpper(uuid.NewString()[:6])
}

func (s *MemoryRoomStore) CreateRoom(_ context.Context, hostName string) (string, string, error) {
	roomID := newRoomCode()
	playerID := uuid.NewString()

	s.locker.Lock()
	defer s.locker.Unlock()

	s.joinSeq++
	room := &game.Room{
		RoomID:   roomID,
		Status:   game.StatusWaiting,
		DrawerID: playerID,
		Round:    1,
		TimeLeft: game.DefaultDrawTime,
		Players: map[string]game.Player{
			playerID: {ID: playerID, Name: hostName, IsHost: true, JoinedAt: s.joinSeq},
		},
		Strokes:    map[string]game.Stroke{},
		Guesses:    map[string]game.Guess{},
		Chat:       map[string]game.ChatMessage{},
		HintsQueue: []string{},
	}
	s.rooms[roomID] = room
	s.broadcast(roomID, room)
	return roomID, playerID, nil
}

func (s *MemoryRoomStore) JoinRoom(_ context.Context, roomID, name string) (string, error) {
	playerID := uuid.NewString()
	err := s.mutate(roomID, func(room *game.Room) {
		s.joinSeq++
		room.Players[playerID] = game.Player{ID: playerID, Name: name, JoinedAt: s.joinSeq}
	})
	if err != nil {
		return "", err
	}
	return playerID, nil
}

func (s *MemoryRoomStore) LeaveRoom(_ context.Context, roomID, playerID string) error {
	return s.mutate(roomID, func(room *game.Room) {
		delete(room.Players, playerID)
	})
}

func (s *MemoryRoomStore) Room(_ context.Context, roomID string) (game.Room, error) {
	s.locker.Lock()
	defer s.locker.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return game.Room{}, game.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *MemoryRoomStore) Subscribe(roomID string, onChange func(game.Room), onError func(error)) (func(), error) {
	s.locker.Lock()
	room, ok := s.rooms[roomID]
	if !ok {
		s.locker.Unlock()
		return nil, game.ErrRoomNotFound
	}

	sub := &memorySubscriber{snapshots: make(chan game.Room, snapshotBuffer)}
	if s.subs[roomID] == nil {
		s.subs[roomID] = make(map[int]*memorySubscriber)
	}
	id := s.nextSub
	s.nextSub++
	s.subs[roomID][id] = sub
	sub.snapshots <- room.Clone()
	s.locker.Unlock()

	go func() {
		for snapshot := range sub.snapshots {
			onChange(snapshot)
		}
	}()

	unsubscribe := func() {
		s.locker.Lock()
		defer s.locker.Unlock()
		if !sub.closed {
			sub.closed = true
			close(sub.snapshots)
			delete(s.subs[roomID], id)
		}
	}
	return unsubscribe, nil
}

func (s *MemoryRoomStore) ApplyStart(_ context.Context, roomID, word string, _ int, drawerID string, settings game.Settings, hints []string) error {
	return s.mutate(roomID, func(room *game.Room) {
		announcement := game.StartDocument(room, word, drawerID, settings, hints, time.Now().UnixMilli())
		addChat(room, announcement)
	})
}

func (s *MemoryRoomStore) ApplyNextTurn(_ context.Context, roomID, drawerID, word string, hints []string) error {
	return s.mutate(roomID, func(room *game.Room) {
		announcement := game.NextTurnDocument(room, drawerID, word, hints, time.Now().UnixMilli())
		addChat(room, announcement)
	})
}

func (s *MemoryRoomStore) ApplyGameOver(_ context.Context, roomID string) error {
	return s.mutate(roomID, func(room *game.Room) {
		game.GameOverDocument(room)
	})
}

func (s *MemoryRoomStore) ApplyGuess(_ context.Context, roomID string, guess game.Guess) error {
	return s.mutate(roomID, func(room *game.Room) {
		room.Guesses[uuid.NewString()] = guess
	})
}

func (s *MemoryRoomStore) ApplyChat(_ context.Context, roomID string, message game.ChatMessage) error {
	return s.mutate(roomID, func(room *game.Room) {
		addChat(room, message)
	})
}

func (s *MemoryRoomStore) ApplyStroke(_ context.Context, roomID string, stroke game.Stroke) (string, error) {
	strokeID := uuid.NewString()
	err := s.mutate(roomID, func(room *game.Room) {
		room.Strokes[strokeID] = stroke
	})
	if err != nil {
		return "", err
	}
	return strokeID, nil
}

func (s *MemoryRoomStore) RedoStroke(_ context.Context, roomID, strokeID string, stroke game.Stroke) error {
	return s.mutate(roomID, func(room *game.Room) {
		room.Strokes[strokeID] = stroke
	})
}

func (s *MemoryRoomStore) UndoStroke(_ context.Context, roomID, strokeID string) error {
	return s.mutate(roomID, func(room *game.Room) {
		delete(room.Strokes, strokeID)
	})
}

func (s *MemoryRoomStore) ClearStrokes(_ context.Context, roomID string) error {
	return s.mutate(roomID, func(room *game.Room) {
		room.Strokes = map[string]game.Stroke{}
	})
}

func (s *MemoryRoomStore) ApplyScoreDelta(_ context.Context, roomID, playerID string, delta int) error {
	return s.mutate(roomID, func(room *game.Room) {
		player, ok := room.Players[playerID]
		if !ok {
			return
		}
		player.Score += delta
		room.Players[playerID] = player
	})
}

func (s *MemoryRoomStore) ApplyTimeLeft(_ context.Context, roomID string, seconds int) error {
	return s.mutate(roomID, func(room *game.Room) {
		room.TimeLeft = seconds
	})
}

func (s *MemoryRoomStore) ApplyMaskedWord(_ context.Context, roomID, mask string) error {
	return s.mutate(roomID, func(room *game.Room) {
		room.MaskedWord = mask
	})
}

func (s *MemoryRoomStore) ApplyHostHeartbeat(_ context.Context, roomID string, unixMilli int64) error {
	return s.mutate(roomID, func(room *game.Room) {
		room.LastHostHeartbeat = unixMilli
	})
}

// mutate applies fn under the lock and fans the updated snapshot out to
// every subscriber, preserving write order.
func (s *MemoryRoomStore) mutate(roomID string, fn func(*game.Room)) error {
	s.locker.Lock()
	defer s.locker.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return game.ErrRoomNotFound
	}
	fn(room)
	s.broadcast(roomID, room)
	return nil
}

// broadcast requires the lock to be held.
func (s *MemoryRoomStore) broadcast(roomID string, room *game.Room) {
	for _, sub := range s.subs[roomID] {
		if sub.closed {
			continue
		}
		snapshot := room.Clone()
		select {
		case sub.snapshots <- snapshot:
		default:
			// Full buffer: evict the oldest snapshot so the subscriber
			// still converges on the latest state.
			select {
			case <-sub.snapshots:
			default:
			}
			sub.snapshots <- snapshot
		}
	}
}

func addChat(room *game.Room, message game.ChatMessage) {
	room.Chat[uuid.NewString()] = message
}
