package capacity

// Error messages
const (
	ErrMsgFailedToGetUpgradeBonus  = "failed to get capacity upgrade bonus"
	ErrMsgFailedToGetPrestigeLevel = "failed to get prestige level"
)
