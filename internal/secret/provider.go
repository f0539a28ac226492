package secret

import "context"

// CleanupFunc reverses whatever session state a Fetch changed. It is invoked
// exactly once, on every exit path of the caller; failures inside are logged
// by the implementation as warnings and never escalate.
type CleanupFunc func(ctx context.Context)

// NopCleanup is the cleanup for providers that hold no session state.
func NopCleanup(context.Context) {}

// Provider retrieves a named secret from a password manager. Implementations
// must never write the plaintext to a persistent log or error message.
type Provider interface {
	// Name identifies the provider in config and errors, e.g. "bitwarden".
	Name() string
	// Fetch retrieves the secret selected by item. An empty or failed
	// result is an error naming the selector. When nonInteractive is set the
	// provider must fail instead of prompting. The returned cleanup must be
	// run once the secret is no longer needed.
	Fetch(ctx context.Context, item string, nonInteractive bool) (*Secret, CleanupFunc, error)
}
