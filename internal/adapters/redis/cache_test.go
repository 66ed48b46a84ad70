package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "lead_finder/internal/adapters/redis"
	"lead_finder/internal/domain"
)

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var missed domain.Coords
	ok, err := c.Get(ctx, "maps:geo:pune", &missed)
	if err != nil || ok {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}

	want := domain.Coords{Lat: 18.5204, Lng: 73.8567}
	if err := c.Set(ctx, "maps:geo:pune", want, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got domain.Coords
	ok, err = c.Get(ctx, "maps:geo:pune", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}

	if ttl := mr.TTL("maps:geo:pune"); ttl <= 0 {
		t.Fatalf("expected a TTL on the key, got %v", ttl)
	}

	if err := c.Del(ctx, "maps:geo:pune"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = c.Get(ctx, "maps:geo:pune", &got)
	if ok {
		t.Fatalf("expected miss after delete")
	}
}
