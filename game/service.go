package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Saadia-Asghar/Skribble/shared/logger"
)

type runnerHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Service is the application surface over the room store. It forwards
// player intents and owns the lifecycle of per-room host runners: one is
// spun up when the host starts a game and cancelled on teardown.
type Service struct {
	repo       RoomRepository
	dictionary *Trie

	locker  sync.Mutex
	runners map[string]*runnerHandle
}

func NewService(repo RoomRepository) *Service {
	return &Service{
		repo:       repo,
		dictionary: NewDictionaryTrie(DefaultWordList),
		runners:    make(map[string]*runnerHandle),
	}
}

func (s *Service) CreateRoom(ctx context.Context, hostName string) (string, string, error) {
	return s.repo.CreateRoom(ctx, hostName)
}

func (s *Service) JoinRoom(ctx context.Context, roomID, name string) (string, error) {
	return s.repo.JoinRoom(ctx, roomID, name)
}

func (s *Service) LeaveRoom(ctx context.Context, roomID, playerID string) error {
	return s.repo.LeaveRoom(ctx, roomID, playerID)
}

func (s *Service) Room(ctx context.Context, roomID string) (Room, error) {
	return s.repo.Room(ctx, roomID)
}

func (s *Service) Subscribe(roomID string, onChange func(Room), onError func(error)) (func(), error) {
	return s.repo.Subscribe(roomID, onChange, onError)
}

// StartGame handles the host's start request: it validates the room,
// commits the start intent and spins up the authoritative host runner.
func (s *Service) StartGame(ctx context.Context, roomID, playerID string, settings Settings) error {
	room, err := s.repo.Room(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.Players[playerID].IsHost {
		return ErrNotHost
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	selector := NewWordSelector(DefaultWordList, rng)

	intent, err := StartGame(room, settings, selector, rng)
	if err != nil {
		return err
	}

	if err := s.repo.ApplyStart(ctx, roomID, intent.Word, intent.Difficulty, intent.DrawerID, intent.Settings, intent.Hints); err != nil {
		return err
	}

	runner := NewHostRunner(s.repo, roomID, selector, rng)
	runnerCtx, cancel := context.WithCancel(context.Background())
	handle := &runnerHandle{cancel: cancel, done: make(chan struct{})}

	s.locker.Lock()
	if existing, ok := s.runners[roomID]; ok {
		existing.cancel()
	}
	s.runners[roomID] = handle
	s.locker.Unlock()

	go func() {
		defer close(handle.done)
		if err := runner.Run(runnerCtx); err != nil && runnerCtx.Err() == nil {
			logger.Warningf("[Room %s] host runner exited: %v", roomID, err)
		}
	}()

	logger.Infof("[Room %s] game started by host %s, drawer %s, word difficulty %d", roomID, playerID, intent.DrawerID, intent.Difficulty)
	return nil
}

// StopRoom cancels the room's host runner, if any. Called when the host
// connection goes away or the room is torn down; nobody takes over the
// role, the round just stalls for the remaining players.
func (s *Service) StopRoom(roomID string) {
	s.locker.Lock()
	handle, ok := s.runners[roomID]
	if ok {
		delete(s.runners, roomID)
	}
	s.locker.Unlock()
	if ok {
		handle.cancel()
		<-handle.done
	}
}

// Close cancels every live host runner.
func (s *Service) Close() {
	s.locker.Lock()
	handles := make([]*runnerHandle, 0, len(s.runners))
	for id, h := range s.runners {
		handles = append(handles, h)
		delete(s.runners, id)
	}
	s.locker.Unlock()
	for _, h := range handles {
		h.cancel()
		<-h.done
	}
}

// SubmitGuess evaluates and records a guess. Correct guesses award the
// guesser and the drawer through independent atomic increments before the
// guess and its chat entry are appended.
func (s *Service) SubmitGuess(ctx context.Context, roomID, playerID, text string) error {
	room, err := s.repo.Room(ctx, roomID)
	if err != nil {
		return err
	}

	intent := EvaluateGuess(room, s.dictionary, playerID, text, time.Now())
	if intent.Ignored {
		return nil
	}

	if intent.Correct {
		if err := s.repo.ApplyScoreDelta(ctx, roomID, playerID, intent.GuesserPoints); err != nil {
			return err
		}
		if err := s.repo.ApplyScoreDelta(ctx, roomID, room.DrawerID, intent.DrawerBonus); err != nil {
			return err
		}
	}
	if err := s.repo.ApplyGuess(ctx, roomID, intent.Guess); err != nil {
		return err
	}
	return s.repo.ApplyChat(ctx, roomID, intent.Chat)
}

// SubmitChat appends a plain chat message from a player.
func (s *Service) SubmitChat(ctx context.Context, roomID, playerID, text string) error {
	room, err := s.repo.Room(ctx, roomID)
	if err != nil {
		return err
	}
	player, ok := room.Players[playerID]
	if !ok {
		return nil
	}
	return s.repo.ApplyChat(ctx, roomID, ChatMessage{
		PlayerID:   playerID,
		PlayerName: player.Name,
		Text:       text,
		Timestamp:  time.Now().UnixMilli(),
	})
}

// SubmitStroke appends a stroke from the current drawer. Strokes from
// anyone else are dropped without error.
func (s *Service) SubmitStroke(ctx context.Context, roomID, playerID string, stroke Stroke) (string, error) {
	room, err := s.repo.Room(ctx, roomID)
	if err != nil {
		return "", err
	}
	if room.Status != StatusPlaying || room.DrawerID != playerID {
		return "", nil
	}
	return s.repo.ApplyStroke(ctx, roomID, stroke)
}

func (s *Service) UndoStroke(ctx context.Context, roomID, strokeID string) error {
	return s.repo.UndoStroke(ctx, roomID, strokeID)
}

func (s *Service) RedoStroke(ctx context.Context, roomID, strokeID string, stroke Stroke) error {
	return s.repo.RedoStroke(ctx, roomID, strokeID, stroke)
}

func (s *Service) ClearStrokes(ctx context.Context, roomID string) error {
	return s.repo.ClearStrokes(ctx, roomID)
}
