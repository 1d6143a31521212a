// internal/handler/ws.handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"wallet-ledger/internal/response"
	"wallet-ledger/internal/usecase/wallet"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WalletWSHandler streams balance updates to a client. On connect it pushes
// the wallet snapshot and history, then echoes fresh balances whenever the
// client asks or a mutation fires the notifier.
func WalletWSHandler(uc *wallet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "WebSocket upgrade failed")
			return
		}

		uc.Notifier.RegisterConnection(userID, conn)
		defer uc.Notifier.UnregisterConnection(userID, conn)

		uc.Notifier.NotifyInitial(userID, uc.GetWallet(userID), uc.Transactions(userID))

		for {
			mt, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			if mt != websocket.TextMessage {
				continue
			}
			var req struct {
				Action string `json:"action"`
			}
			if err := json.Unmarshal(msg, &req); err == nil && req.Action == "get_balance" {
				uc.Notifier.NotifyBalance(userID, uc.GetWallet(userID))
			}
		}
	}
}
