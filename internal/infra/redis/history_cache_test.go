package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"gift-advisor/internal/domain/model"
)

var _ RedisClient = (*fakeRedisClient)(nil)

type fakeRedisClient struct {
	data     map[string]string
	GetError error
	SetError error
	DelError error
}

func newFakeRedisClient() *fakeRedisClient {
	return &fakeRedisClient{data: map[string]string{}}
}

func (f *fakeRedisClient) Ping(ctx context.Context) error { return nil }

func (f *fakeRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.data[key] = string(value.([]byte))
	return nil
}

func (f *fakeRedisClient) Get(ctx context.Context, key string) (string, error) {
	if f.GetError != nil {
		return "", f.GetError
	}
	v, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeRedisClient) Del(ctx context.Context, keys ...string) error {
	if f.DelError != nil {
		return f.DelError
	}
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}

func (f *fakeRedisClient) Close() error { return nil }

func TestHistoryCache_StoreThenGet(t *testing.T) {
	ctx := context.Background()
	cache := NewHistoryCache(newFakeRedisClient(), time.Hour)

	messages := []model.ChatMessage{
		{SessionID: "s1", Role: model.RoleUser, Content: "a watch for my dad"},
		{SessionID: "s1", Role: model.RoleAssistant, Content: "Consider a field watch."},
	}
	if err := cache.Store(ctx, "s1", messages); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, err := cache.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 2 || got[0].Content != messages[0].Content || got[1].Role != model.RoleAssistant {
		t.Errorf("cached history mismatch: %+v", got)
	}
}

func TestHistoryCache_MissOnUnknownSession(t *testing.T) {
	cache := NewHistoryCache(newFakeRedisClient(), time.Hour)

	_, err := cache.Get(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected a miss error")
	}
	if !IsMiss(err) {
		t.Errorf("expected miss sentinel, got %v", err)
	}
}

func TestHistoryCache_InvalidateRemovesEntry(t *testing.T) {
	ctx := context.Background()
	cache := NewHistoryCache(newFakeRedisClient(), time.Hour)

	if err := cache.Store(ctx, "s1", []model.ChatMessage{{SessionID: "s1", Role: model.RoleUser, Content: "hi"}}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Invalidate(ctx, "s1"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := cache.Get(ctx, "s1"); !IsMiss(err) {
		t.Errorf("expected miss after invalidate, got %v", err)
	}
}

func TestHistoryCache_GetErrorIsReported(t *testing.T) {
	client := newFakeRedisClient()
	client.GetError = context.DeadlineExceeded
	cache := NewHistoryCache(client, time.Hour)

	if _, err := cache.Get(context.Background(), "s1"); err == nil {
		t.Fatal("expected transport error to surface")
	}
}
