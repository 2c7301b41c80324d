package memory

import (
	"context"
	"testing"
	"time"

	"ai-taskbot-be/pkg/ai/intent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewIntentCache(time.Minute)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	in := intent.New(intent.ActionCreateTask, "buy milk")
	in.Tasks = []intent.Item{{Title: "buy milk"}}
	require.NoError(t, c.Set(ctx, "k", in))

	in.Tasks[0].Title = "changed after set"

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "buy milk", got.Tasks[0].Title)

	got.Entities["sort"] = "priority"
	again, _, _ := c.Get(ctx, "k")
	assert.Empty(t, again.Entities)
	assert.Equal(t, 1, c.cache.ItemCount())
}

func TestIntentCache_Expiry(t *testing.T) {
	c := NewIntentCache(10 * time.Millisecond)
	require.NoError(t, c.Set(context.Background(), "k", intent.New(intent.ActionHelp, "help")))

	time.Sleep(30 * time.Millisecond)
	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
