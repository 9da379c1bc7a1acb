package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducerFallsBackToMock(t *testing.T) {
	tests := []struct {
		name    string
		brokers []string
	}{
		{name: "no brokers", brokers: nil},
		{name: "unreachable broker", brokers: []string{"127.0.0.1:1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProducer(tt.brokers, "image-analysis")
			require.IsType(t, &mockProducer{}, p)

			assert.NoError(t, p.Publish(context.Background(), map[string]string{"id": "x"}))
			assert.NoError(t, p.Close())
		})
	}
}
