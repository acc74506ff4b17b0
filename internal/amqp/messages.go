package amqp

import (
	"encoding/json"
	"time"
)

// OrderSyncMessage tells the billing export worker that an order landed in
// the ledger. It carries only the ledger id; the worker loads the full order
// from the database.
type OrderSyncMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewOrderSyncMessage(id int64) *OrderSyncMessage {
	return &OrderSyncMessage{ID: id, Timestamp: time.Now()}
}

func (m *OrderSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func OrderSyncMessageFromJSON(data []byte) (*OrderSyncMessage, error) {
	var msg OrderSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
