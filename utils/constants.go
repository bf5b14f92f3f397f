// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// DashboardCachePrefix is the prefix for cached rider dashboard summaries.
const DashboardCachePrefix = "dashboard:"

// DashboardCacheTTL keeps dashboard summaries fresh enough without
// recomputing the aggregation on every request.
const DashboardCacheTTL = 2 * time.Minute
