package cache

import "fmt"

// Key builders. Keep all cache key formats in one place so invalidation
// stays greppable.

// SettingsKey is the cache key for an organization's system settings.
func SettingsKey(orgID string) string {
	return fmt.Sprintf("quarters:settings:%s", orgID)
}

// OccupancyKey is the cache key for a building occupancy summary.
func OccupancyKey(orgID, buildingID string) string {
	return fmt.Sprintf("quarters:occupancy:%s:%s", orgID, buildingID)
}
