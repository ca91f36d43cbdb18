package game

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Saadia-Asghar/Skribble/shared/logger"
)

type Handler struct {
	svc      *Service
	upgrader websocket.Upgrader
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func RegisterRoutes(router *gin.Engine, svc *Service) {
	h := NewHandler(svc)
	router.POST("/rooms", h.CreateRoom)
	router.POST("/rooms/:id/join", h.JoinRoom)
	router.GET("/rooms/:id", h.GetRoom)
	router.GET("/rooms/:id/ws", h.Websocket)
}

type joinRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) CreateRoom(ctx *gin.Context) {
	req := joinRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	roomID, playerID, err := h.svc.CreateRoom(ctx.Request.Context(), req.Name)
	if err != nil {
		logger.Criticalf("room creation failed: %v", err)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not create room"})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"roomId": roomID, "playerId": playerID})
}

func (h *Handler) JoinRoom(ctx *gin.Context) {
	req := joinRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	playerID, err := h.svc.JoinRoom(ctx.Request.Context(), ctx.Param("id"), req.Name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"roomId": ctx.Param("id"), "playerId": playerID})
}

func (h *Handler) GetRoom(ctx *gin.Context) {
	room, err := h.svc.Room(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"room": room, "chat": room.RecentChat()})
}

// Websocket attaches a player to the room's realtime feed. When the
// host's connection goes away the room's authoritative loop is stopped;
// the game stalls for everyone else, as there is no host re-election.
func (h *Handler) Websocket(ctx *gin.Context) {
	roomID := ctx.Param("id")
	playerID := ctx.Query("playerId")

	room, err := h.svc.Room(ctx.Request.Context(), roomID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}
	player, ok := room.Players[playerID]
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unknown player"})
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Warningf("[Room %s] websocket upgrade failed: %v", roomID, err)
		return
	}

	session := newClientSession(h.svc, roomID, playerID, NewWebsocketConnection(conn))
	session.run()

	if player.IsHost {
		h.svc.StopRoom(roomID)
		logger.Infof("[Room %s] host %s disconnected, authoritative loop stopped", roomID, playerID)
	}
}
