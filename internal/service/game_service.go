package service

import (
	"fmt"

	"github.com/benbeisheim/clickchess-backend/internal/model"
	"github.com/benbeisheim/clickchess-backend/internal/storage"
	"github.com/google/uuid"
)

// ResultStore is the ledger behind the stats endpoints.
type ResultStore interface {
	ResultRecorder
	LoadStats() (*storage.GameStats, error)
	RecentResults(limit int) ([]storage.GameResult, error)
}

type GameService struct {
	gameManager *GameManager
	store       ResultStore
}

func NewGameService(gameManager *GameManager, store ResultStore) *GameService {
	return &GameService{
		gameManager: gameManager,
		store:       store,
	}
}

func (gs *GameService) CreateGame(cfg model.Config) (string, model.RenderState, error) {
	gameID := uuid.New().String()

	state, err := gs.gameManager.CreateGame(gameID, cfg)
	if err != nil {
		return "", model.RenderState{}, fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, state, nil
}

func (gs *GameService) GetGameState(gameID string) (model.RenderState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) SelectCell(gameID string, row, col int) (model.RenderState, error) {
	return gs.gameManager.SelectCell(gameID, row, col)
}

func (gs *GameService) ResetGame(gameID string, cfg model.Config) (model.RenderState, error) {
	return gs.gameManager.ResetGame(gameID, cfg)
}

func (gs *GameService) Stats() (*storage.GameStats, error) {
	stats, err := gs.store.LoadStats()
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	return stats, nil
}

func (gs *GameService) RecentResults(limit int) ([]storage.GameResult, error) {
	results, err := gs.store.RecentResults(limit)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	return results, nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) SendError(gameID string, conn Conn, text string) error {
	return gs.gameManager.SendError(gameID, conn, text)
}
