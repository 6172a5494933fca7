package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	categoryListKey        = "catalog:categories"
	defaultCatalogCacheTTL = 5 * time.Minute
)

var catalogTTL = defaultCatalogCacheTTL

// SetCatalogTTL 设置菜单缓存过期时间，非正数恢复默认值
func SetCatalogTTL(ttl time.Duration) {
	if ttl <= 0 {
		catalogTTL = defaultCatalogCacheTTL
		return
	}
	catalogTTL = ttl
}

// CatalogTTL 当前菜单缓存过期时间
func CatalogTTL() time.Duration {
	return catalogTTL
}

// CategoryListKey 分类列表缓存键
func CategoryListKey() string {
	return categoryListKey
}

// MenuItemKey 单个菜品缓存键
func MenuItemKey(id uint) string {
	return fmt.Sprintf("catalog:menu_item:%d", id)
}

// InvalidateCategories 分类变更后清理缓存
func InvalidateCategories(ctx context.Context) error {
	return Del(ctx, categoryListKey)
}

// InvalidateMenuItem 菜品变更后清理缓存
func InvalidateMenuItem(ctx context.Context, id uint) error {
	if id == 0 {
		return nil
	}
	return Del(ctx, MenuItemKey(id))
}
