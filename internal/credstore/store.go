// Package credstore persists the session's bearer token. The store holds a
// single opaque string; it never inspects or validates token contents.
package credstore

import "context"

// Store is the credential store contract. Get returns an empty string when
// no token is held. An unavailable backing store degrades to an absent
// token rather than an error surfaced to session logic.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
