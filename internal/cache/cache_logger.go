package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// BatchInvalidate invalidates multiple patterns in batch
func BatchInvalidate(ctx context.Context, helper *CacheHelper, patterns []string) error {
	var lastErr error
	for _, pattern := range patterns {
		if err := helper.InvalidatePattern(ctx, pattern); err != nil {
			lastErr = err
			slog.ErrorContext(ctx, "Failed to invalidate pattern in batch",
				"error", err,
				"pattern", pattern)
		}
	}
	return lastErr
}

// InvalidateCourseCache drops a course record plus every listing that
// could include it
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID string) {
	SafeDelete(ctx, cm.Course,
		fmt.Sprintf("id:%s", courseID),
		fmt.Sprintf("detail:%s", courseID))
	SafeInvalidatePattern(ctx, cm.Course, "list:*")
	SafeInvalidatePattern(ctx, cm.Content, fmt.Sprintf("course:%s:*", courseID))
}

// InvalidateContentCache drops folder/file listings for a course after
// tree mutations
func InvalidateContentCache(ctx context.Context, cm *CacheManager, courseID string) {
	SafeInvalidatePattern(ctx, cm.Content, fmt.Sprintf("course:%s:*", courseID))
	SafeDelete(ctx, cm.Course, fmt.Sprintf("detail:%s", courseID))
}

// InvalidateEnrollmentCache drops per-user enrollment listings after a
// sync touches them
func InvalidateEnrollmentCache(ctx context.Context, cm *CacheManager, userIDs []string) {
	for _, userID := range userIDs {
		SafeDelete(ctx, cm.Enrollment, fmt.Sprintf("user:%s", userID))
	}
}
