package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/Saadia-Asghar/Skribble/shared/logger"
)

type WebsocketConnection struct {
	socket *websocket.Conn
}

func NewWebsocketConnection(conn *websocket.Conn) *WebsocketConnection {
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(time.Minute))
		return nil
	})
	return &WebsocketConnection{socket: conn}
}

func (wc *WebsocketConnection) Write(data []byte) error {
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *WebsocketConnection) Ping() error {
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *WebsocketConnection) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

func (wc *WebsocketConnection) Close(errCode string) {
	wc.socket.SetWriteDeadline(time.Now().Add(time.Second * 20))
	wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, errCode))
	wc.socket.Close()
}

// ClientIntent is one inbound websocket message from a player.
type ClientIntent struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	Settings *Settings `json:"settings,omitempty"`
	Stroke   *Stroke   `json:"stroke,omitempty"`
}

// ServerEvent is one outbound websocket message. Room snapshots carry the
// chat pre-trimmed to the history cap.
type ServerEvent struct {
	Type  string        `json:"type"`
	Room  *Room         `json:"room,omitempty"`
	Chat  []ChatMessage `json:"chat,omitempty"`
	Error string        `json:"error,omitempty"`
}

const sessionOutboxSize = 256

// clientSession glues one player's websocket to the room: it subscribes
// to snapshots, rate-limits inbound intents and, for the drawer, tracks
// the undo/redo canvas.
type clientSession struct {
	roomID   string
	playerID string
	conn     NetworkSession
	svc      *Service

	limiter *rate.Limiter
	canvas  *Canvas

	outbox    chan []byte
	closeOnce sync.Once
	closed    chan struct{}
}

func newClientSession(svc *Service, roomID, playerID string, conn NetworkSession) *clientSession {
	return &clientSession{
		roomID:   roomID,
		playerID: playerID,
		conn:     conn,
		svc:      svc,
		// Guesses and chat arrive at typing speed; strokes come in small
		// bursts while drawing.
		limiter: rate.NewLimiter(rate.Limit(20), 60),
		canvas:  NewCanvas(),
		outbox:  make(chan []byte, sessionOutboxSize),
		closed:  make(chan struct{}),
	}
}

func (cs *clientSession) run() {
	unsubscribe, err := cs.svc.Subscribe(cs.roomID, cs.onRoomChange, cs.onStoreError)
	if err != nil {
		cs.sendError(err.Error())
		cs.close("")
		return
	}
	defer unsubscribe()

	go cs.writePump()
	cs.readPump()
}

func (cs *clientSession) onRoomChange(room Room) {
	event := ServerEvent{Type: "room", Room: &room, Chat: room.RecentChat()}
	data, err := json.Marshal(event)
	if err != nil {
		logger.Criticalf("[Room %s] failed to marshal snapshot: %v", cs.roomID, err)
		return
	}
	select {
	case cs.outbox <- data:
	default:
		// Slow consumer; the next snapshot supersedes this one anyway.
	}
}

func (cs *clientSession) onStoreError(err error) {
	cs.sendError(err.Error())
	cs.close("store-error")
}

func (cs *clientSession) readPump() {
	defer cs.close("")
	for {
		data, err := cs.conn.Read()
		if err != nil {
			return
		}

		var intent ClientIntent
		if err := json.Unmarshal(data, &intent); err != nil {
			continue
		}
		if !cs.limiter.Allow() {
			continue
		}
		cs.dispatch(intent)
	}
}

func (cs *clientSession) writePump() {
	pingTicker := time.NewTicker(time.Second * 30)
	defer pingTicker.Stop()
	for {
		select {
		case <-cs.closed:
			return
		case data := <-cs.outbox:
			if err := cs.conn.Write(data); err != nil {
				cs.close("")
				return
			}
		case <-pingTicker.C:
			if err := cs.conn.Ping(); err != nil {
				cs.close("")
				return
			}
		}
	}
}

func (cs *clientSession) dispatch(intent ClientIntent) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	var err error
	switch intent.Type {
	case "start":
		settings := Settings{}
		if intent.Settings != nil {
			settings = *intent.Settings
		}
		err = cs.svc.StartGame(ctx, cs.roomID, cs.playerID, settings)
	case "guess":
		err = cs.svc.SubmitGuess(ctx, cs.roomID, cs.playerID, intent.Text)
	case "chat":
		err = cs.svc.SubmitChat(ctx, cs.roomID, cs.playerID, intent.Text)
	case "stroke":
		if intent.Stroke == nil {
			return
		}
		var strokeID string
		strokeID, err = cs.svc.SubmitStroke(ctx, cs.roomID, cs.playerID, *intent.Stroke)
		if err == nil && strokeID != "" {
			cs.canvas.Add(strokeID, *intent.Stroke)
		}
	case "undo":
		if strokeID, ok := cs.canvas.Undo(); ok {
			err = cs.svc.UndoStroke(ctx, cs.roomID, strokeID)
		}
	case "redo":
		if strokeID, stroke, ok := cs.canvas.Redo(); ok {
			err = cs.svc.RedoStroke(ctx, cs.roomID, strokeID, stroke)
		}
	case "clear":
		cs.canvas.Clear()
		err = cs.svc.ClearStrokes(ctx, cs.roomID)
	default:
		return
	}

	if err != nil {
		cs.sendError(err.Error())
	}
}

func (cs *clientSession) sendError(message string) {
	data, err := json.Marshal(ServerEvent{Type: "error", Error: message})
	if err != nil {
		return
	}
	select {
	case cs.outbox <- data:
	default:
	}
}

func (cs *clientSession) close(errCode string) {
	cs.closeOnce.Do(func() {
		close(cs.closed)
		cs.conn.Close(errCode)
	})
}
