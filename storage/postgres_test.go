package storage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Saadia-Asghar/Skribble/game"
	"github.com/Saadia-Asghar/Skribble/migrations"
	"github.com/Saadia-Asghar/Skribble/storage"
)

var store *storage.PostgresRoomStore

func TestMain(m *testing.M) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine3.22",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testusername"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		panic(err)
	}

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	if err := migrations.Migrate(connString); err != nil {
		panic(err)
	}

	store, err = storage.NewPostgresRoomStore(ctx, connString)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	store.Close()
	if err := postgresContainer.Terminate(ctx); err != nil {
		panic(err)
	}
	os.Exit(code)
}

func TestPostgresStore_CreateAndFetch(t *testing.T) {
	ctx := context.Background()

	roomID, hostID, err := store.CreateRoom(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, roomID, 6)

	room, err := store.Room(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, game.StatusWaiting, room.Status)
	assert.Equal(t, hostID, room.DrawerID)
	assert.True(t, room.Players[hostID].IsHost)
}

func TestPostgresStore_UnknownRoom(t *testing.T) {
	ctx := context.Background()

	_, err := store.Room(ctx, "NOPE")
	assert.ErrorIs(t, err, game.ErrRoomNotFound)

	err = store.ApplyTimeLeft(ctx, "NOPE", 30)
	assert.ErrorIs(t, err, game.ErrRoomNotFound)
}

func TestPostgresStore_JoinAndLeave(t *testing.T) {
	ctx := context.Background()

	roomID, _, err := store.CreateRoom(ctx, "alice")
	require.NoError(t, err)

	bobID, err := store.JoinRoom(ctx, roomID, "bob")
	require.NoError(t, err)

	room, err := store.Room(ctx, roomID)
	require.NoError(t, err)
	assert.Len(t, room.Players, 2)
	assert.Equal(t, "bob", room.Players[bobID].Name)

	require.NoError(t, store.LeaveRoom(ctx, roomID, bobID))
	room, err = store.Room(ctx, roomID)
	require.NoError(t, err)
	assert.Len(t, room.Players, 1)
}

func TestPostgresStore_StartFlow(t *testing.T) {
	ctx := context.Background()

	roomID, hostID, err := store.CreateRoom(ctx, "alice")
	require.NoError(t, err)
	_, err = store.JoinRoom(ctx, roomID, "bob")
	require.NoError(t, err)

	settings := game.Settings{Rounds: 3, DrawTime: 60}
	require.NoError(t, store.ApplyStart(ctx, roomID, "penguin", 2, hostID, settings, []string{"p______"}))

	room, err := store.Room(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, game.StatusPlaying, room.Status)
	assert.Equal(t, 6, room.TotalTurns)
	assert.Equal(t, "_______", room.MaskedWord)
	assert.Len(t, room.RecentChat(), 1)
}

func TestPostgresStore_ScoreDelta(t *testing.T) {
	ctx := context.Background()

	roomID, hostID, err := store.CreateRoom(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, store.ApplyScoreDelta(ctx, roomID, hostID, 250))
	require.NoError(t, store.ApplyScoreDelta(ctx, roomID, hostID, 125))

	room, err := store.Room(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, 375, room.Players[hostID].Score)
}

func TestPostgresStore_ScoreDeltaUnknownPlayer(t *testing.T) {
	ctx := context.Background()

	roomID, _, err := store.CreateRoom(ctx, "alice")
	require.NoError(t, err)

	// A departed player is not an error; the delta is simply lost.
	assert.NoError(t, store.ApplyScoreDelta(ctx, roomID, "gone", 100))
}

func TestPostgresStore_StrokeLifecycle(t *testing.T) {
	ctx := context.Background()

	roomID, _, err := store.CreateRoom(ctx, "alice")
	require.NoError(t, err)

	strokeID, err := store.ApplyStroke(ctx, roomID, game.Stroke{Tool: "pen", Color: "#000"})
	require.NoError(t, err)

	require.NoError(t, store.UndoStroke(ctx, roomID, strokeID))
	room, err := store.Room(ctx, roomID)
	require.NoError(t, err)
	assert.NotContains(t, room.Strokes, strokeID)

	require.NoError(t, store.RedoStroke(ctx, roomID, strokeID, game.Stroke{Tool: "pen", Color: "#000"}))
	room, err = store.Room(ctx, roomID)
	require.NoError(t, err)
	assert.Contains(t, room.Strokes, strokeID)
}

func TestPostgresStore_TouchesUpdatedAt(t *testing.T) {
	ctx := context.Background()

	roomID, _, err := store.CreateRoom(ctx, "alice")
	require.NoError(t, err)

	var created time.Time
	err = store.GetPool().QueryRow(ctx, "SELECT updated_at FROM rooms WHERE id = $1", roomID).Scan(&created)
	require.NoError(t, err)

	time.Sleep(time.Millisecond * 10)
	require.NoError(t, store.ApplyTimeLeft(ctx, roomID, 42))

	var touched time.Time
	err = store.GetPool().QueryRow(ctx, "SELECT updated_at FROM rooms WHERE id = $1", roomID).Scan(&touched)
	require.NoError(t, err)
	assert.True(t, touched.After(created))
}

func TestPostgresStore_SubscribeStreamsChanges(t *testing.T) {
	ctx := context.Background()

	roomID, _, err := store.CreateRoom(ctx, "alice")
	require.NoError(t, err)

	snapshots := make(chan game.Room, 16)
	unsubscribe, err := store.Subscribe(roomID, func(room game.Room) { snapshots <- room }, nil)
	require.NoError(t, err)
	defer unsubscribe()

	initial := waitForRoom(t, snapshots, func(game.Room) bool { return true })
	assert.Len(t, initial.Players, 1)

	_, err = store.JoinRoom(ctx, roomID, "bob")
	require.NoError(t, err)

	waitForRoom(t, snapshots, func(r game.Room) bool { return len(r.Players) == 2 })
}
