// Package store holds the client-side state machines: the session store, the
// cart store, the reconciler that keeps the cart aligned with the backend,
// and the token expiry watchdog.
//
// Stores are plain structs wired together at boot. They publish lifecycle
// events through pkg/event so the CLI and the daemon can react without the
// stores knowing about either surface.
package store

// Event topics published by the stores.
const (
	// TopicUnauthorized fires when any authenticated request comes back 401.
	TopicUnauthorized = "auth.unauthorized"

	// TopicSessionExpired fires when the watchdog clears a session whose
	// token reached its expiry.
	TopicSessionExpired = "session.expired"

	// TopicLoggedOut fires after an explicit, user-initiated logout.
	TopicLoggedOut = "auth.logged_out"

	// TopicCartSynced fires after the cart store adopts a fresh server
	// snapshot. Payload is the new item count.
	TopicCartSynced = "cart.synced"
)
