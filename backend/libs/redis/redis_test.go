package redis

import (
	"context"
	"testing"
	"time"
)

func TestOptionsDefaults(t *testing.T) {
	got := Options{Addr: "  cache:6379 "}.withDefaults()
	if got.Addr != "cache:6379" {
		t.Fatalf("expected trimmed addr, got %q", got.Addr)
	}
	if got.Timeout != fallbackTimeout || got.PoolSize != fallbackPoolSize {
		t.Fatalf("unexpected defaults %+v", got)
	}

	kept := Options{Addr: "cache:6379", Timeout: time.Second, PoolSize: 3}.withDefaults()
	if kept.Timeout != time.Second || kept.PoolSize != 3 {
		t.Fatalf("expected explicit values kept, got %+v", kept)
	}
}

func TestConnectRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "empty addr", opts: Options{Addr: " "}},
		{name: "negative db", opts: Options{Addr: "127.0.0.1:6379", DB: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Connect(context.Background(), tt.opts); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestConnectUnreachable(t *testing.T) {
	_, err := Connect(context.Background(), Options{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("expected ping failure for closed port")
	}
}
