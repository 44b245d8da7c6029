// File: utils/constants.go
package utils

import "time"

// AvailabilityCachePrefix is the prefix for Redis availability snapshot keys.
const AvailabilityCachePrefix = "availability:"

// AvailabilityCacheTTL is the default time-to-live for availability snapshots.
const AvailabilityCacheTTL = 72 * time.Hour
