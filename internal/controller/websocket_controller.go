package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/clickchess-backend/internal/model"
	"github.com/benbeisheim/clickchess-backend/internal/service"
	"github.com/benbeisheim/clickchess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

var errMissingCoordinates = errors.New("row and col are required")

type WebSocketController struct {
	gameService *service.GameService
	logger      *zap.Logger
}

func NewWebSocketController(gameService *service.GameService, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		logger:      logger,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals("playerID").(string)
	logger := wsc.logger.With(zap.String("game_id", gameID), zap.String("player_id", playerID))

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		if errors.Is(err, service.ErrDuplicateConnection) {
			// Keep the existing connection and turn this one away.
			c.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
			)
		} else {
			logger.Warn("failed to register connection", zap.Error(err))
		}
		c.Close()
		return
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.Debug("read error", zap.Error(err))
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Debug("parse error", zap.Error(err))
			wsc.sendError(gameID, c, "malformed message")
			continue
		}
		if err := wsc.handleMessage(gameID, msg); err != nil {
			logger.Debug("handle error", zap.Error(err))
			wsc.sendError(gameID, c, err.Error())
		}
	}

	wsc.gameService.UnregisterConnection(gameID, playerID, c)
}

// handleMessage applies one inbound message. The resulting state reaches
// every connection, this one included, through the game's broadcast.
func (wsc *WebSocketController) handleMessage(gameID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeSelect:
		var sel ws.SelectPayload
		if len(msg.Payload) == 0 || json.Unmarshal(msg.Payload, &sel) != nil || sel.Row == nil || sel.Col == nil {
			return errMissingCoordinates
		}
		_, err := wsc.gameService.SelectCell(gameID, *sel.Row, *sel.Col)
		return err

	case ws.MessageTypeReset:
		var cfg model.Config
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &cfg); err != nil {
				return err
			}
		}
		_, err := wsc.gameService.ResetGame(gameID, cfg)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(gameID string, c *websocket.Conn, errorMsg string) {
	if err := wsc.gameService.SendError(gameID, c, errorMsg); err != nil {
		wsc.logger.Debug("failed to send error", zap.Error(err))
	}
}
