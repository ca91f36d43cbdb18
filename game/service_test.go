package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func playingRoom() Room {
	room := makeRoom("alice", "bob")
	room.Status = StatusPlaying
	room.CurrentWord = "penguin"
	room.CurrentTurn = 1
	room.TotalTurns = 6
	room.TimeLeft = 25
	room.DrawerID = "p0"
	return room
}

func TestService_StartGame_NotHost(t *testing.T) {
	repo := &MockRoomRepository{}
	repo.On("Room", mock.Anything, "R1").Return(makeRoom("alice", "bob"), nil)
	svc := NewService(repo)

	err := svc.StartGame(context.Background(), "R1", "p1", Settings{})

	assert.ErrorIs(t, err, ErrNotHost)
	repo.AssertNotCalled(t, "ApplyStart", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_StartGame_SpawnsRunner(t *testing.T) {
	repo := &MockRoomRepository{}
	repo.On("Room", mock.Anything, "R1").Return(makeRoom("alice", "bob"), nil)
	repo.On("ApplyStart", mock.Anything, "R1", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("Subscribe", "R1", mock.Anything, mock.Anything).Return(func() {}, nil)
	svc := NewService(repo)

	err := svc.StartGame(context.Background(), "R1", "p0", Settings{})
	require.NoError(t, err)

	// Close waits for the runner, so by now Subscribe must have happened.
	svc.Close()
	repo.AssertExpectations(t)
}

func TestService_StartGame_TooFewPlayers(t *testing.T) {
	repo := &MockRoomRepository{}
	repo.On("Room", mock.Anything, "R1").Return(makeRoom("alice"), nil)
	svc := NewService(repo)

	err := svc.StartGame(context.Background(), "R1", "p0", Settings{})
	assert.ErrorIs(t, err, ErrInsufficientPlayers)
}

func TestService_SubmitGuess_CorrectAwardsBothPlayers(t *testing.T) {
	repo := &MockRoomRepository{}
	repo.On("Room", mock.Anything, "R1").Return(playingRoom(), nil)
	repo.On("ApplyScoreDelta", mock.Anything, "R1", "p1", 250).Return(nil).Once()
	repo.On("ApplyScoreDelta", mock.Anything, "R1", "p0", 125).Return(nil).Once()
	repo.On("ApplyGuess", mock.Anything, "R1", mock.MatchedBy(func(g Guess) bool {
		return g.IsCorrect && g.PlayerID == "p1"
	})).Return(nil)
	repo.On("ApplyChat", mock.Anything, "R1", mock.MatchedBy(func(m ChatMessage) bool {
		return m.IsSystem && m.Text == "bob guessed the word!"
	})).Return(nil)
	svc := NewService(repo)

	err := svc.SubmitGuess(context.Background(), "R1", "p1", "Penguin")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_SubmitGuess_WrongIsJustChat(t *testing.T) {
	repo := &MockRoomRepository{}
	repo.On("Room", mock.Anything, "R1").Return(playingRoom(), nil)
	repo.On("ApplyGuess", mock.Anything, "R1", mock.Anything).Return(nil)
	repo.On("ApplyChat", mock.Anything, "R1", mock.MatchedBy(func(m ChatMessage) bool {
		return !m.IsSystem && m.Text == "dolphin"
	})).Return(nil)
	svc := NewService(repo)

	err := svc.SubmitGuess(context.Background(), "R1", "p1", "dolphin")

	require.NoError(t, err)
	repo.AssertNotCalled(t, "ApplyScoreDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SubmitGuess_DrawerIgnored(t *testing.T) {
	repo := &MockRoomRepository{}
	repo.On("Room", mock.Anything, "R1").Return(playingRoom(), nil)
	svc := NewService(repo)

	err := svc.SubmitGuess(context.Background(), "R1", "p0", "penguin")

	require.NoError(t, err)
	repo.AssertNotCalled(t, "ApplyGuess", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "ApplyChat", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SubmitStroke_DrawerOnly(t *testing.T) {
	repo := &MockRoomRepository{}
	repo.On("Room", mock.Anything, "R1").Return(playingRoom(), nil)
	repo.On("ApplyStroke", mock.Anything, "R1", mock.Anything).Return("s1", nil)
	svc := NewService(repo)

	id, err := svc.SubmitStroke(context.Background(), "R1", "p0", Stroke{Tool: "pen"})
	require.NoError(t, err)
	assert.Equal(t, "s1", id)

	id, err = svc.SubmitStroke(context.Background(), "R1", "p1", Stroke{Tool: "pen"})
	require.NoError(t, err)
	assert.Empty(t, id, "non-drawer strokes are dropped")
	repo.AssertNumberOfCalls(t, "ApplyStroke", 1)
}

func TestService_SubmitChat(t *testing.T) {
	repo := &MockRoomRepository{}
	repo.On("Room", mock.Anything, "R1").Return(playingRoom(), nil)
	repo.On("ApplyChat", mock.Anything, "R1", mock.MatchedBy(func(m ChatMessage) bool {
		return m.PlayerID == "p1" && m.PlayerName == "bob" && m.Text == "hello"
	})).Return(nil)
	svc := NewService(repo)

	err := svc.SubmitChat(context.Background(), "R1", "p1", "hello")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_StopRoomWithoutRunner(t *testing.T) {
	svc := NewService(&MockRoomRepository{})
	svc.StopRoom("never-started")
}
