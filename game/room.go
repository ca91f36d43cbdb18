package game

import "sort"

type RoomStatus string

const (
	StatusWaiting RoomStatus = "waiting"
	StatusPlaying RoomStatus = "playing"
)

// ChatHistoryLimit caps how much chat history is handed to clients.
const ChatHistoryLimit = 50

// Settings are fixed once the game starts.
type Settings struct {
	Rounds      int    `json:"rounds"`
	DrawTime    int    `json:"drawTime"`
	CustomWords string `json:"customWords"`
}

const (
	DefaultRounds   = 3
	DefaultDrawTime = 60
)

type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	IsHost   bool   `json:"isHost"`
	JoinedAt int64  `json:"joinedAt"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is immutable once written; undo removes a whole stroke by id.
type Stroke struct {
	Tool      string  `json:"tool"`
	BrushType string  `json:"brushType,omitempty"`
	ShapeType string  `json:"shapeType,omitempty"`
	Color     string  `json:"color"`
	Size      float64 `json:"size"`
	Opacity   float64 `json:"opacity"`
	Path      []Point `json:"path"`
	Timestamp int64   `json:"timestamp"`
}

type Guess struct {
	PlayerID     string `json:"playerId"`
	PlayerName   string `json:"playerName"`
	Text         string `json:"text"`
	IsCorrect    bool   `json:"isCorrect"`
	InDictionary bool   `json:"inDictionary"`
	Timestamp    int64  `json:"timestamp"`
}

type ChatMessage struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
	IsSystem   bool   `json:"isSystem,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

// SystemPlayerID marks chat entries written by the game itself.
const SystemPlayerID = "SYSTEM"

// SystemPlayerName is the display name on system chat entries.
const SystemPlayerName = "Game"

// Room is the single shared aggregate for one game instance. Every field
// here round-trips through the room store as one JSON document; clients
// re-derive their view from full snapshots.
type Room struct {
	RoomID            string                 `json:"roomId"`
	Status            RoomStatus             `json:"status"`
	Players           map[string]Player      `json:"players"`
	DrawerID          string                 `json:"drawerId"`
	CurrentWord       string                 `json:"currentWord"`
	MaskedWord        string                 `json:"maskedWord"`
	Round             int                    `json:"round"`
	CurrentTurn       int                    `json:"currentTurn"`
	TotalTurns        int                    `json:"totalTurns"`
	TimeLeft          int                    `json:"timeLeft"`
	Settings          Settings               `json:"settings"`
	Strokes           map[string]Stroke      `json:"strokes"`
	Guesses           map[string]Guess       `json:"guesses"`
	Chat              map[string]ChatMessage `json:"chat"`
	HintsQueue        []string               `json:"hintsQueue"`
	LastHostHeartbeat int64                  `json:"lastHostHeartbeat,omitempty"`
}

// GameOver is a derived predicate; no persisted status flip marks the end
// of a game.
func (r *Room) GameOver() bool {
	return r.TotalTurns > 0 && r.CurrentTurn > r.TotalTurns
}

// PlayerOrder returns player ids in stable join order. Turn rotation
// cycles over this order, never over scores.
func (r *Room) PlayerOrder() []string {
	ids := make([]string, 0, len(r.Players))
	for id := range r.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.Players[ids[i]], r.Players[ids[j]]
		if a.JoinedAt != b.JoinedAt {
			return a.JoinedAt < b.JoinedAt
		}
		return a.ID < b.ID
	})
	return ids
}

// NextDrawerID rotates cyclically to the player after the current drawer.
func (r *Room) NextDrawerID() string {
	order := r.PlayerOrder()
	if len(order) == 0 {
		return ""
	}
	current := -1
	for i, id := range order {
		if id == r.DrawerID {
			current = i
			break
		}
	}
	return order[(current+1)%len(order)]
}

// RecentChat returns at most ChatHistoryLimit messages, oldest first.
func (r *Room) RecentChat() []ChatMessage {
	messages := make([]ChatMessage, 0, len(r.Chat))
	for _, m := range r.Chat {
		messages = append(messages, m)
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Timestamp < messages[j].Timestamp
	})

	queue := NewBoundedQueue[ChatMessage](ChatHistoryLimit)
	for _, m := range messages {
		queue.Enqueue(m)
	}
	return queue.Items()
}

// Clone deep-copies the room so stores can hand out snapshots without
// sharing mutable maps.
func (r *Room) Clone() Room {
	out := *r
	out.Players = make(map[string]Player, len(r.Players))
	for k, v := range r.Players {
		out.Players[k] = v
	}
	out.Strokes = make(map[string]Stroke, len(r.Strokes))
	for k, v := range r.Strokes {
		out.Strokes[k] = v
	}
	out.Guesses = make(map[string]Guess, len(r.Guesses))
	for k, v := range r.Guesses {
		out.Guesses[k] = v
	}
	out.Chat = make(map[string]ChatMessage, len(r.Chat))
	for k, v := range r.Chat {
		out.Chat[k] = v
	}
	out.HintsQueue = append([]string(nil), r.HintsQueue...)
	return out
}
