package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/clickchess-backend/internal/model"
	"github.com/benbeisheim/clickchess-backend/internal/ws"
	"go.uber.org/zap"
)

var ErrDuplicateConnection = errors.New("connection already exists")

// Conn is the part of a websocket connection the broadcaster needs.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// GameConnections holds the sockets watching one game.
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
	sendMu      sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// Add registers conn for playerID. A player keeps its first healthy
// connection; later ones get ErrDuplicateConnection.
func (gc *GameConnections) Add(playerID string, conn Conn) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if _, exists := gc.connections[playerID]; exists {
		return ErrDuplicateConnection
	}
	gc.connections[playerID] = conn
	return nil
}

// Remove unregisters playerID, but only if conn is still the registered
// connection.
func (gc *GameConnections) Remove(playerID string, conn Conn) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if current, exists := gc.connections[playerID]; exists && current == conn {
		delete(gc.connections, playerID)
		return true
	}
	return false
}

func (gc *GameConnections) Len() int {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return len(gc.connections)
}

// Send writes one message of type t to conn. Writes to the game's sockets
// never overlap.
func (gc *GameConnections) Send(conn Conn, t ws.MessageType, payload interface{}) error {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", t, err)
	}
	gc.sendMu.Lock()
	defer gc.sendMu.Unlock()
	return conn.WriteJSON(msg)
}

// Broadcast sends state to every connection and drops the ones that fail.
func (gc *GameConnections) Broadcast(state model.RenderState, logger *zap.Logger) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		logger.Error("failed to encode game state", zap.Error(err))
		return
	}

	// Snapshot under the read lock, write without it.
	gc.mu.RLock()
	active := make(map[string]Conn, len(gc.connections))
	for playerID, conn := range gc.connections {
		active[playerID] = conn
	}
	gc.mu.RUnlock()

	var failed []string
	gc.sendMu.Lock()
	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			logger.Warn("failed to send state", zap.String("player_id", playerID), zap.Error(err))
			failed = append(failed, playerID)
		}
	}
	gc.sendMu.Unlock()

	for _, playerID := range failed {
		if gc.Remove(playerID, active[playerID]) {
			active[playerID].Close()
		}
	}
}
