package kafka

import (
	"context"
	"testing"

	"github.com/DRSN-tech/go-marketplace/internal/cfg"
	"github.com/DRSN-tech/go-marketplace/internal/usecase"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMessage(t *testing.T) {
	req := usecase.NewWriteRawMessageReq(&usecase.OutboxEvent{
		EventID:      "evt-1",
		EventType:    usecase.EntitlementGranted,
		AggregateKey: "account:7",
		Payload:      []byte(`{"account_id":7}`),
	})

	msg := toMessage(req)

	assert.Equal(t, []byte("account:7"), msg.Key)
	assert.Equal(t, []byte(`{"account_id":7}`), msg.Value)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, headerEventID, msg.Headers[0].Key)
	assert.Equal(t, []byte("evt-1"), msg.Headers[0].Value)
	assert.Equal(t, []byte("entitlement.granted"), msg.Headers[1].Value)
}

func TestEnsureTopic_NoBrokers(t *testing.T) {
	p := NewProducer(logger.NewNop(), &cfg.KafkaCfg{Topic: "events", NetworkMode: "tcp"})
	t.Cleanup(func() { _ = p.Close(context.Background()) })

	require.Error(t, p.EnsureTopic(context.Background()))
}
