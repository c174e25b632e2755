package session

// Tier identifies which storage area holds the token pair.
type Tier int

const (
	// TierUnset asks StoreTokens to infer the tier from current state.
	TierUnset Tier = iota
	// TierDurable survives process restarts (SQLite file or Redis).
	TierDurable
	// TierSession lives in process memory.
	TierSession
)

func (t Tier) String() string {
	switch t {
	case TierDurable:
		return "durable"
	case TierSession:
		return "session"
	default:
		return "unset"
	}
}

// TierFor maps the "remember me" choice made at login to a tier.
func TierFor(remember bool) Tier {
	if remember {
		return TierDurable
	}
	return TierSession
}
