package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNilProducerDropsEvents(t *testing.T) {
	var p *Producer

	require.NoError(t, p.Publish(context.Background(), TopicUserEvents, "key", map[string]string{"type": "user_registered"}))
	require.NoError(t, p.Close())
}

func TestPublishRejectsUnmarshalable(t *testing.T) {
	p := NewProducer("localhost:9092")
	defer p.Close()

	err := p.Publish(context.Background(), TopicUserEvents, "key", make(chan int))
	require.Error(t, err)
}
