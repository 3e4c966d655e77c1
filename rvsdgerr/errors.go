// Package rvsdgerr collects the sentinel and structured errors raised across
// the rvsdg module (§7 Error handling design).
package rvsdgerr

import "errors"

// Sentinel errors for conditions every package may hit; wrap these with
// fmt.Errorf("...: %w", ...) to add node/region-specific context.
var (
	// ErrTypeMismatch is a type error: a port wired to an origin of
	// incompatible type, or a type constructor fed a malformed argument list.
	ErrTypeMismatch = errors.New("rvsdg: type mismatch")

	// ErrStructural is a structural error: port count mismatch against a
	// declared operation signature, a back-edge outside a theta, or a
	// structural exit result with no matching entry.
	ErrStructural = errors.New("rvsdg: structural invariant violated")

	// ErrNotVisible is raised when an input is diverted to an origin not
	// visible from the input's region (§3 Ownership invariants).
	ErrNotVisible = errors.New("rvsdg: origin not visible from region")

	// ErrLiveUsers is raised when destroying a node or removing an output
	// that still has live users.
	ErrLiveUsers = errors.New("rvsdg: cannot remove port or node with live users")

	// ErrUnsupported marks an unsupported construct the caller may choose to
	// skip rather than fail the whole pass (§7 Unsupported construct).
	ErrUnsupported = errors.New("rvsdg: unsupported construct")
)
