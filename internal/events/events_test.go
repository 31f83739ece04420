package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSON(t *testing.T) {
	e := New(FriendAdded, "u1", map[string]string{"friendId": "u2"})
	assert.WithinDuration(t, time.Now(), e.OccurredAt, time.Second)

	b, err := json.Marshal(e)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "friend.added", got["type"])
	assert.Equal(t, "u1", got["id"])
	assert.Equal(t, "u2", got["data"].(map[string]any)["friendId"])
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), New(UserCreated, "x", nil)))
	assert.NoError(t, p.Close())
}

func TestAMQPRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_AMQP_URL")
	if url == "" {
		t.Skip("TEST_AMQP_URL not set")
	}
	const exchange = "thoughts.events.test"
	p, err := NewAMQP(url, exchange)
	require.NoError(t, err)
	defer p.Close()

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "thought.*", exchange, false, nil))
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), New(ThoughtCreated, "t1", nil)))

	select {
	case d := <-deliveries:
		assert.Equal(t, ThoughtCreated, d.RoutingKey)
		var e Event
		require.NoError(t, json.Unmarshal(d.Body, &e))
		assert.Equal(t, "t1", e.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("no delivery")
	}
}
