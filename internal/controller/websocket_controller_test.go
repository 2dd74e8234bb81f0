package controller

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/clickchess-backend/internal/model"
	"github.com/benbeisheim/clickchess-backend/internal/service"
	"github.com/benbeisheim/clickchess-backend/internal/storage"
	"github.com/benbeisheim/clickchess-backend/internal/ws"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func newTestWebSocketController(t *testing.T) (*WebSocketController, *service.GameService) {
	t.Helper()
	store, err := storage.Open("")
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := zap.NewNop()
	manager := service.NewGameManager(store, logger, service.WithScheduler(func(time.Duration, func()) {}))
	gs := service.NewGameService(manager, store)
	return NewWebSocketController(gs, logger), gs
}

func rawMessage(t *testing.T, msgType ws.MessageType, payload string) ws.Message {
	t.Helper()
	msg := ws.Message{Type: msgType}
	if payload != "" {
		msg.Payload = json.RawMessage(payload)
	}
	return msg
}

func TestHandleMessage(t *testing.T) {
	tests := []struct {
		name    string
		msg     ws.Message
		wantErr bool
		check   func(t *testing.T, state model.RenderState)
	}{
		{
			name: "select plays the highlighted move",
			msg:  rawMessage(t, ws.MessageTypeSelect, `{"row":4,"col":4}`),
			check: func(t *testing.T, state model.RenderState) {
				if state.Plies != 1 || state.ToMove != model.PlayerColorBlack {
					t.Errorf("plies=%d toMove=%s, want a played move", state.Plies, state.ToMove)
				}
			},
		},
		{
			name:    "empty select payload",
			msg:     rawMessage(t, ws.MessageTypeSelect, `{}`),
			wantErr: true,
		},
		{
			name:    "select without col",
			msg:     rawMessage(t, ws.MessageTypeSelect, `{"row":5}`),
			wantErr: true,
		},
		{
			name:    "select without payload",
			msg:     rawMessage(t, ws.MessageTypeSelect, ""),
			wantErr: true,
		},
		{
			name:    "malformed select payload",
			msg:     rawMessage(t, ws.MessageTypeSelect, `"e4"`),
			wantErr: true,
		},
		{
			name: "reset without payload",
			msg:  rawMessage(t, ws.MessageTypeReset, ""),
			check: func(t *testing.T, state model.RenderState) {
				if state.Epoch != 1 || state.Plies != 0 || state.Mode != model.PolicyHuman {
					t.Errorf("epoch=%d plies=%d mode=%s", state.Epoch, state.Plies, state.Mode)
				}
				if state.SelectedCell != nil {
					t.Errorf("selection survived reset: %+v", state.SelectedCell)
				}
			},
		},
		{
			name: "reset with config",
			msg:  rawMessage(t, ws.MessageTypeReset, `{"mode":"greedy","whiteName":"Ada"}`),
			check: func(t *testing.T, state model.RenderState) {
				want := model.Players{White: "Ada", Black: "Computer"}
				if diff := cmp.Diff(want, state.Players); diff != "" {
					t.Errorf("players (-want +got):\n%s", diff)
				}
				if state.Mode != model.PolicyGreedy {
					t.Errorf("mode = %s", state.Mode)
				}
			},
		},
		{
			name:    "unknown type",
			msg:     rawMessage(t, "resign", `{}`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wsc, gs := newTestWebSocketController(t)
			gameID, _, err := gs.CreateGame(model.Config{})
			if err != nil {
				t.Fatalf("CreateGame: %v", err)
			}
			before, err := gs.SelectCell(gameID, 6, 4)
			if err != nil {
				t.Fatalf("select e-pawn: %v", err)
			}

			err = wsc.handleMessage(gameID, tt.msg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("handleMessage() error = %v, wantErr %v", err, tt.wantErr)
			}

			state, err := gs.GetGameState(gameID)
			if err != nil {
				t.Fatalf("GetGameState: %v", err)
			}
			if tt.wantErr {
				// A rejected message must leave the selection alone.
				if diff := cmp.Diff(before, state); diff != "" {
					t.Errorf("state changed (-before +after):\n%s", diff)
				}
				return
			}
			tt.check(t, state)
		})
	}
}

func TestHandleMessageUnknownGame(t *testing.T) {
	wsc, _ := newTestWebSocketController(t)
	err := wsc.handleMessage("missing", rawMessage(t, ws.MessageTypeSelect, `{"row":6,"col":4}`))
	if !errors.Is(err, service.ErrGameNotFound) {
		t.Errorf("err = %v, want ErrGameNotFound", err)
	}
}
