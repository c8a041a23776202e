package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"gurukul/internal/config"

	ps "cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	topic   string
	payload []byte
	err     error
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, payload []byte) (string, error) {
	r.topic, r.payload = topic, payload
	return "1", r.err
}

func TestEmitterWrapsEvent(t *testing.T) {
	rec := &recordingPublisher{}
	e := NewEmitter(rec, "gurukul-events", zerolog.Nop())

	e.Emit(context.Background(), "enrollment.created", map[string]string{"course_id": "c1"})

	assert.Equal(t, "gurukul-events", rec.topic)
	var got Event
	require.NoError(t, json.Unmarshal(rec.payload, &got))
	assert.Equal(t, "enrollment.created", got.Type)
	assert.Equal(t, "c1", got.Attributes["course_id"])
	assert.False(t, got.OccurredAt.IsZero())
}

func TestEmitterSwallowsPublishErrors(t *testing.T) {
	e := NewEmitter(&recordingPublisher{err: errors.New("unavailable")}, "t", zerolog.Nop())
	assert.NotPanics(t, func() { e.Emit(context.Background(), "x", nil) })

	var nilEmitter *Emitter
	assert.NotPanics(t, func() { nilEmitter.Emit(context.Background(), "x", nil) })
}

func TestNewPublisherInvalidProject(t *testing.T) {
	cfg := &config.Config{GCPProjectID: ""}
	if _, err := NewPublisher(context.Background(), cfg); err == nil {
		t.Fatal("expected error when project ID is empty")
	}
}

func TestPublishWithEmulator(t *testing.T) {
	if os.Getenv("PUBSUB_EMULATOR_HOST") == "" {
		t.Skip("PUBSUB_EMULATOR_HOST is not set, skip emulator integration test")
	}

	ctx := context.Background()
	pub, err := NewPublisher(ctx, &config.Config{GCPProjectID: "test-project"})
	require.NoError(t, err)
	defer pub.Close()

	topic, err := pub.client.CreateTopic(ctx, "gurukul-events-test")
	require.NoError(t, err)
	sub, err := pub.client.CreateSubscription(ctx, "gurukul-events-sub", ps.SubscriptionConfig{Topic: topic})
	require.NoError(t, err)

	msgID, err := pub.Publish(ctx, "gurukul-events-test", []byte("hello-emulator"))
	require.NoError(t, err)
	require.NotEmpty(t, msgID)

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c := make(chan []byte, 1)
	go func() {
		_ = sub.Receive(recvCtx, func(ctx context.Context, m *ps.Message) {
			c <- m.Data
			m.Ack()
			cancel()
		})
	}()

	select {
	case data := <-c:
		assert.Equal(t, "hello-emulator", string(data))
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message from emulator subscription")
	}
}
