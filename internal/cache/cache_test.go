package cache

import (
	"context"
	"testing"
	"time"

	"github.com/tadka-store/internal/config"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	if Enabled() {
		t.Fatalf("cache should be disabled")
	}
	ctx := context.Background()
	if err := SetJSON(ctx, MenuItemKey(1), map[string]string{"name": "paneer tikka"}, time.Minute); err != nil {
		t.Fatalf("set on disabled cache should be noop: %v", err)
	}
	var dest map[string]string
	hit, err := GetJSON(ctx, MenuItemKey(1), &dest)
	if err != nil || hit {
		t.Fatalf("disabled cache should miss, hit=%v err=%v", hit, err)
	}
	if err := InvalidateMenuItem(ctx, 1); err != nil {
		t.Fatalf("invalidate on disabled cache failed: %v", err)
	}
}

func TestCatalogKeysAndTTL(t *testing.T) {
	if got := MenuItemKey(42); got != "catalog:menu_item:42" {
		t.Fatalf("unexpected menu item key: %s", got)
	}
	SetCatalogTTL(30 * time.Second)
	if CatalogTTL() != 30*time.Second {
		t.Fatalf("expected custom ttl")
	}
	SetCatalogTTL(0)
	if CatalogTTL() != defaultCatalogCacheTTL {
		t.Fatalf("expected default ttl after reset")
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	redisPrefix = "tadka"
	if got := buildKey(" auth:user:1 "); got != "tadka:auth:user:1" {
		t.Fatalf("unexpected key: %s", got)
	}
}
