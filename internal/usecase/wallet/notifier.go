// internal/usecase/wallet/notifier.go
package wallet

import (
	"encoding/json"
	"sync"

	"wallet-ledger/internal/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSMessage is the envelope pushed over the balance websocket.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Notifier fans wallet updates out to connected websocket clients. Delivery
// is fire-and-forget: a dead connection is dropped, never retried.
type Notifier struct {
	clients map[string]map[*websocket.Conn]bool
	mu      sync.Mutex
	log     *zap.Logger
}

func NewNotifier(log *zap.Logger) *Notifier {
	return &Notifier{
		clients: make(map[string]map[*websocket.Conn]bool),
		log:     log,
	}
}

func (n *Notifier) RegisterConnection(userID string, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.clients[userID] == nil {
		n.clients[userID] = make(map[*websocket.Conn]bool)
	}
	n.clients[userID][conn] = true
}

func (n *Notifier) UnregisterConnection(userID string, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if conns, ok := n.clients[userID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(n.clients, userID)
		}
	}
}

// NotifyBalance pushes the user's current balances to every open connection.
func (n *Notifier) NotifyBalance(userID string, wallet *domain.Wallet) {
	n.broadcast(userID, WSMessage{
		Type: "balance_update",
		Data: wallet,
	})
}

// NotifyInitial pushes the snapshot sent right after a client connects.
func (n *Notifier) NotifyInitial(userID string, wallet *domain.Wallet, transactions []domain.Transaction) {
	n.broadcast(userID, WSMessage{
		Type: "initial_data",
		Data: map[string]interface{}{
			"wallet":       wallet,
			"transactions": transactions,
		},
	})
}

func (n *Notifier) broadcast(userID string, message WSMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()

	payload, _ := json.Marshal(message)
	for conn := range n.clients[userID] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			n.log.Warn("dropping websocket client",
				zap.String("user_id", userID), zap.Error(err))
			conn.Close()
			delete(n.clients[userID], conn)
		}
	}
}
