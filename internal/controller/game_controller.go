package controller

import (
	"errors"

	"github.com/benbeisheim/clickchess-backend/internal/config"
	"github.com/benbeisheim/clickchess-backend/internal/model"
	"github.com/benbeisheim/clickchess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultResultsLimit = 20
	maxResultsLimit     = 100
)

type GameController struct {
	gameService *service.GameService
	theme       config.Theme
	logger      *zap.Logger
}

func NewGameController(gameService *service.GameService, theme config.Theme, logger *zap.Logger) *GameController {
	return &GameController{gameService: gameService, theme: theme, logger: logger}
}

// Register mounts the REST routes on router.
func (gc *GameController) Register(router fiber.Router) {
	gameRoutes := router.Group("/game")
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
	gameRoutes.Post("/:gameId/select", gc.SelectCell)
	gameRoutes.Post("/:gameId/reset", gc.ResetGame)

	router.Get("/stats", gc.GetStats)
	router.Get("/results", gc.GetResults)
	router.Get("/theme", gc.GetTheme)
}

type selectRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var cfg model.Config
	if err := parseOptionalBody(c, &cfg); err != nil {
		return badRequest(c, "invalid game configuration")
	}

	gameID, state, err := gc.gameService.CreateGame(cfg)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"gameId":  gameID,
		"state":   state,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) SelectCell(c *fiber.Ctx) error {
	var req selectRequest
	if err := c.BodyParser(&req); err != nil || req.Row == nil || req.Col == nil {
		return badRequest(c, "row and col are required")
	}

	state, err := gc.gameService.SelectCell(c.Params("gameId"), *req.Row, *req.Col)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) ResetGame(c *fiber.Ctx) error {
	var cfg model.Config
	if err := parseOptionalBody(c, &cfg); err != nil {
		return badRequest(c, "invalid game configuration")
	}

	state, err := gc.gameService.ResetGame(c.Params("gameId"), cfg)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) GetStats(c *fiber.Ctx) error {
	stats, err := gc.gameService.Stats()
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"stats":        stats,
		"averagePlies": stats.AveragePlies(),
	})
}

func (gc *GameController) GetResults(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultResultsLimit)
	if limit <= 0 || limit > maxResultsLimit {
		return badRequest(c, "limit must be between 1 and 100")
	}
	results, err := gc.gameService.RecentResults(limit)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(results)
}

func (gc *GameController) GetTheme(c *fiber.Ctx) error {
	return c.JSON(gc.theme)
}

// parseOptionalBody decodes the body into v unless the body is empty.
func parseOptionalBody(c *fiber.Ctx, v interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(v)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		gc.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidCell):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrGameOver), errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
