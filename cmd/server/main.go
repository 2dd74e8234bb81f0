package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/benbeisheim/clickchess-backend/internal/config"
	"github.com/benbeisheim/clickchess-backend/internal/controller"
	"github.com/benbeisheim/clickchess-backend/internal/logging"
	"github.com/benbeisheim/clickchess-backend/internal/middleware"
	"github.com/benbeisheim/clickchess-backend/internal/service"
	"github.com/benbeisheim/clickchess-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.Development)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		logger.Fatal("failed to open result store", zap.String("dir", cfg.DataDir), zap.Error(err))
	}
	defer store.Close()

	// Initialize services
	gameManager := service.NewGameManager(store, logger, service.WithOpponentDelay(cfg.OpponentDelay))
	gameService := service.NewGameService(gameManager, store)

	// Initialize controllers
	gameController := controller.NewGameController(gameService, cfg.Theme, logger)
	wsController := controller.NewWebSocketController(gameService, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: !cfg.Development})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogger(logger))

	// WebSocket routes
	app.Use("/ws/*", middleware.EnsurePlayerID(logger))
	app.Get("/ws/game/:gameId",
		middleware.WebSocketUpgrade(logger),
		websocket.New(wsController.HandleConnection, websocket.Config{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Origins:         cfg.AllowedOrigins,
		}),
	)

	// REST routes
	api := app.Group("/api", middleware.EnsurePlayerID(logger))
	gameController.Register(api)

	logger.Info("listening", zap.String("addr", cfg.Addr), zap.Bool("persistent", cfg.DataDir != ""))
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
