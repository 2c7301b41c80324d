package memory

import (
	"context"
	"time"

	"ai-taskbot-be/internal/repository/contract"
	"ai-taskbot-be/pkg/ai/intent"

	"github.com/patrickmn/go-cache"
)

// IntentCache keeps parsed intents in process memory.
type IntentCache struct {
	cache *cache.Cache
}

var _ contract.IntentCache = (*IntentCache)(nil)

func NewIntentCache(ttl time.Duration) *IntentCache {
	return &IntentCache{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *IntentCache) Get(_ context.Context, key string) (*intent.Intent, bool, error) {
	x, found := r.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	cached := x.(*intent.Intent)
	return clone(cached), true, nil
}

func (r *IntentCache) Set(_ context.Context, key string, in *intent.Intent) error {
	r.cache.Set(key, clone(in), cache.DefaultExpiration)
	return nil
}

// clone copies the slices and entity map so callers can't mutate cached values.
func clone(in *intent.Intent) *intent.Intent {
	if in == nil {
		return nil
	}
	out := *in
	out.Entities = make(map[string]interface{}, len(in.Entities))
	for k, v := range in.Entities {
		out.Entities[k] = v
	}
	out.Tasks = append([]intent.Item{}, in.Tasks...)
	out.Notes = append([]intent.Item{}, in.Notes...)
	if in.Overflow != nil {
		out.Overflow = append([]intent.Item{}, in.Overflow...)
	}
	if in.Warnings != nil {
		out.Warnings = append([]string{}, in.Warnings...)
	}
	return &out
}
