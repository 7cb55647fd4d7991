package events_test

import (
	"encoding/json"
	"testing"

	"github.com/kenzyo3030/cafe/pkg/events"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

func TestLogOrderEvent(t *testing.T) {
	body, err := json.Marshal(map[string]interface{}{
		"event":         "order.placed",
		"order_id":      1756300000000,
		"customer_name": "Alice",
		"address":       "Table 4",
		"total":         30000,
	})
	assert.NoError(t, err)

	err = events.LogOrderEvent(amqp.Delivery{DeliveryTag: 1, Body: body})
	assert.NoError(t, err)
}

func TestLogOrderEvent_MalformedPayloadDropped(t *testing.T) {
	// A nil handler error acks the message, so garbage is dropped
	// instead of being requeued forever.
	err := events.LogOrderEvent(amqp.Delivery{DeliveryTag: 2, Body: []byte("{not json")})
	assert.NoError(t, err)
}
