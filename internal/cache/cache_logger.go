package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern invalidates a cache pattern, logging instead of
// propagating failures.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes cache keys, logging instead of propagating failures.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateSessionCache invalidates all caches touched by a session write.
func InvalidateSessionCache(ctx context.Context, cm *CacheManager, sessionID, userID uint) {
	SafeDelete(ctx, cm.Session,
		fmt.Sprintf("id:%d", sessionID),
		fmt.Sprintf("details:%d", sessionID))

	SafeInvalidatePattern(ctx, cm.Session, fmt.Sprintf("user:%d:*", userID))
}

// InvalidateUserCache invalidates user caches after profile changes.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID uint, email string) {
	SafeDelete(ctx, cm.User, fmt.Sprintf("id:%d", userID))
	if email != "" {
		SafeDelete(ctx, cm.User, fmt.Sprintf("email:%s", email))
		SafeDelete(ctx, cm.Exists, fmt.Sprintf("email:%s", email))
	}
}
