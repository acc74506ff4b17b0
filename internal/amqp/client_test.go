package amqp

import (
	"testing"
	"time"
)

func TestOrderSyncMessageRoundTrip(t *testing.T) {
	msg := NewOrderSyncMessage(42)
	if msg.ID != 42 {
		t.Fatalf("id = %d", msg.ID)
	}
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := OrderSyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != msg.ID {
		t.Errorf("id = %d, want %d", decoded.ID, msg.ID)
	}
	if !decoded.Timestamp.Truncate(time.Millisecond).Equal(msg.Timestamp.Truncate(time.Millisecond)) {
		t.Errorf("timestamp = %v, want %v", decoded.Timestamp, msg.Timestamp)
	}
}

func TestOrderSyncMessageFromJSONInvalid(t *testing.T) {
	if _, err := OrderSyncMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}

func TestNewClientBadURL(t *testing.T) {
	if _, err := NewClient("amqp://127.0.0.1:1", "mensa", "billing_sync"); err == nil {
		t.Fatal("expected connection error")
	}
}
