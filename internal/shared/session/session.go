package session

import "strings"

// GuestPrefix marks owner ids that belong to guest sessions rather than
// registered accounts. Guest owner ids never collide with account ids.
const GuestPrefix = "guest:"

// Principal identifies the caller of an operation: either an authenticated
// account or a guest session. Guest is the only mode switch in the system,
// and it is read per call from the principal instead of from global state.
type Principal struct {
	UserID string
	Guest  bool
}

// ForUser returns a principal for a registered account.
func ForUser(userID string) Principal {
	return Principal{UserID: userID}
}

// ForGuest returns a principal for a guest session.
func ForGuest(guestID string) Principal {
	if !strings.HasPrefix(guestID, GuestPrefix) {
		guestID = GuestPrefix + guestID
	}
	return Principal{UserID: guestID, Guest: true}
}
