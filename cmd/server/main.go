package main

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Saadia-Asghar/Skribble/game"
	"github.com/Saadia-Asghar/Skribble/migrations"
	"github.com/Saadia-Asghar/Skribble/shared/configs"
	"github.com/Saadia-Asghar/Skribble/shared/logger"
	"github.com/Saadia-Asghar/Skribble/storage"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Origin",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	var allowedOrigins []string
	if configs.Envs.GIN_MODE == "release" {
		gin.SetMode(gin.ReleaseMode)
		allowedOrigins = append(allowedOrigins, "https://"+configs.Envs.FRONTEND_ORIGIN)
		allowedOrigins = append(allowedOrigins, "https://www."+configs.Envs.FRONTEND_ORIGIN)
	} else {
		allowedOrigins = append(allowedOrigins, "http://"+configs.Envs.FRONTEND_ORIGIN)
	}

	var repo game.RoomRepository
	if configs.Envs.POSTGRES_URL != "" {
		if err := migrations.Migrate(configs.Envs.POSTGRES_URL); err != nil {
			logger.Fatalf("migrations failed: %v", err)
		}
		store, err := storage.NewPostgresRoomStore(context.Background(), configs.Envs.POSTGRES_URL)
		if err != nil {
			logger.Fatalf("couldn't connect to postgres: %v", err)
		}
		defer store.Close()
		repo = store
		logger.Info("using postgres room store")
	} else {
		repo = storage.NewMemoryRoomStore()
		logger.Info("POSTGRES_URL not set, using in-memory room store")
	}

	svc := game.NewService(repo)
	defer svc.Close()

	r := CreateServer(allowedOrigins)
	game.RegisterRoutes(r, svc)

	logger.Infof("api listening on port %s", configs.Envs.PORT)
	if err := r.Run(":" + configs.Envs.PORT); err != nil {
		logger.Fatalf("couldn't start server: %v", err)
	}
}
