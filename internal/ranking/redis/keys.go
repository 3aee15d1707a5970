package redis

// Key prefix for all ranking data
const keyPrefix = "pondwars"

// leaderboardKey returns the Redis key for the best-score sorted set
func leaderboardKey() string {
	return keyPrefix + ":leaderboard"
}
