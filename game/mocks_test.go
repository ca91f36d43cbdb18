package game

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// --- RoomRepository ---

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) CreateRoom(ctx context.Context, hostName string) (string, string, error) {
	args := m.Called(ctx, hostName)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockRoomRepository) JoinRoom(ctx context.Context, roomID, name string) (string, error) {
	args := m.Called(ctx, roomID, name)
	return args.String(0), args.Error(1)
}

func (m *MockRoomRepository) LeaveRoom(ctx context.Context, roomID, playerID string) error {
	return m.Called(ctx, roomID, playerID).Error(0)
}

func (m *MockRoomRepository) Room(ctx context.Context, roomID string) (Room, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(Room), args.Error(1)
}

func (m *MockRoomRepository) Subscribe(roomID string, onChange func(Room), onError func(error)) (func(), error) {
	args := m.Called(roomID, onChange, onError)
	if fn, ok := args.Get(0).(func()); ok {
		return fn, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoomRepository) ApplyStart(ctx context.Context, roomID, word string, difficulty int, drawerID string, settings Settings, hints []string) error {
	return m.Called(ctx, roomID, word, difficulty, drawerID, settings, hints).Error(0)
}

func (m *MockRoomRepository) ApplyNextTurn(ctx context.Context, roomID, drawerID, word string, hints []string) error {
	return m.Called(ctx, roomID, drawerID, word, hints).Error(0)
}

func (m *MockRoomRepository) ApplyGameOver(ctx context.Context, roomID string) error {
	return m.Called(ctx, roomID).Error(0)
}

func (m *MockRoomRepository) ApplyGuess(ctx context.Context, roomID string, guess Guess) error {
	return m.Called(ctx, roomID, guess).Error(0)
}

func (m *MockRoomRepository) ApplyChat(ctx context.Context, roomID string, message ChatMessage) error {
	return m.Called(ctx, roomID, message).Error(0)
}

func (m *MockRoomRepository) ApplyStroke(ctx context.Context, roomID string, stroke Stroke) (string, error) {
	args := m.Called(ctx, roomID, stroke)
	return args.String(0), args.Error(1)
}

func (m *MockRoomRepository) RedoStroke(ctx context.Context, roomID, strokeID string, stroke Stroke) error {
	return m.Called(ctx, roomID, strokeID, stroke).Error(0)
}

func (m *MockRoomRepository) UndoStroke(ctx context.Context, roomID, strokeID string) error {
	return m.Called(ctx, roomID, strokeID).Error(0)
}

func (m *MockRoomRepository) ClearStrokes(ctx context.Context, roomID string) error {
	return m.Called(ctx, roomID).Error(0)
}

func (m *MockRoomRepository) ApplyScoreDelta(ctx context.Context, roomID, playerID string, delta int) error {
	return m.Called(ctx, roomID, playerID, delta).Error(0)
}

func (m *MockRoomRepository) ApplyTimeLeft(ctx context.Context, roomID string, seconds int) error {
	return m.Called(ctx, roomID, seconds).Error(0)
}

func (m *MockRoomRepository) ApplyMaskedWord(ctx context.Context, roomID, mask string) error {
	return m.Called(ctx, roomID, mask).Error(0)
}

func (m *MockRoomRepository) ApplyHostHeartbeat(ctx context.Context, roomID string, unixMilli int64) error {
	return m.Called(ctx, roomID, unixMilli).Error(0)
}

// --- NetworkSession ---

type MockNetworkSession struct {
	mock.Mock
}

func (m *MockNetworkSession) Close(errCode string) {
	m.Called(errCode)
}

func (m *MockNetworkSession) Write(data []byte) error {
	return m.Called(data).Error(0)
}

func (m *MockNetworkSession) Read() ([]byte, error) {
	args := m.Called()
	if b, ok := args.Get(0).([]byte); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNetworkSession) Ping() error {
	return m.Called().Error(0)
}
