package models

// SessionAdjustment records what the secret acquisition step changed to reach
// a usable vault session, so cleanup can reverse exactly that and nothing
// more. It is produced once by acquisition and consumed once by cleanup.
type SessionAdjustment struct {
	// DidLogin is set when acquisition had to authenticate; cleanup logs out.
	DidLogin bool
	// DidUnlock is set when acquisition unlocked the vault; cleanup locks it
	// again unless DidLogin already implies a logout.
	DidUnlock bool
	// UsedInjectedToken is set when the caller supplied a session token.
	// The caller owns that session, so cleanup must not lock or log out.
	UsedInjectedToken bool
	// PrevSessionSet and PrevSession capture the session environment value
	// before acquisition touched it; cleanup restores it verbatim or clears
	// it when it was absent.
	PrevSessionSet bool
	PrevSession    string
}
