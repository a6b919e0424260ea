package consts

const (
	FeedCacheKey         = "feed:cache:"
	FeedCacheRegistryKey = "feed:cache:keys:"
	UserPreferenceKey    = "user:preference:"
	UserBehaviorKey      = "user:behavior:"
	UserFollowingKey     = "user:following:"
	UserInterestKey      = "user:interest:"
	UserInterestDirtyKey = "user:interest:dirty"
)

const (
	UserInterestSyncLock = "lock:interest:sync"
)
