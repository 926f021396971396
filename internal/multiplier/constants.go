package multiplier

// Source names reported in Multipliers.Degraded and in metrics
const (
	SourceBoosts    = "boosts"
	SourceBuildings = "buildings"
	SourceSeasons   = "seasons"
	SourcePrestige  = "prestige"
)

// Log messages
const (
	LogMsgSourceUnavailable = "Multiplier source unavailable, using neutral factor"
	LogMsgCriticalHit       = "Critical production hit"
)

const seasonCacheKey = "active"
