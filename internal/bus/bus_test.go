package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectWithEmptyURLReturnsNilPublisherNoError(t *testing.T) {
	p, err := Connect("")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestConnectWithUnreachableURLErrors(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1")
	assert.Error(t, err)
}

func TestNilPublisherMethodsAreNoOps(t *testing.T) {
	var p *Publisher
	ctx := context.Background()
	assert.NoError(t, p.PublishStart(ctx, "gen-1", "/workspace"))
	assert.NoError(t, p.PublishComplete(ctx, "gen-1", 10, 1, 2, 1))
	assert.NoError(t, p.PublishFailure(ctx, "gen-1", "boom"))
	p.Close() // must not panic
}
