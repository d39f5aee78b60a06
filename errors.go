package suspense

import "errors"

var (
	// ErrInvalidPolicy is returned when the requested fetch policy can never
	// produce a settling fetch and is therefore incompatible with suspension.
	ErrInvalidPolicy = errors.New("fetch policy is incompatible with suspension")

	// ErrNoClient is returned by Bind when the cache has no data-fetching client.
	ErrNoClient = errors.New("suspense cache has no client")

	// ErrUnbound is returned when a binding is used after Unbind.
	ErrUnbound = errors.New("binding has been released")
)
