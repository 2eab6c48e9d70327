// Package api holds the error taxonomy shared by the session registry, the
// cycle driver, and the admin interface.
//
// The taxonomy mirrors how failures propagate through a health-check cycle:
//
//   - ValidationError: caller input bug, surfaced immediately, never retried
//   - NotFoundError: normal negative result from the registry
//   - TransientError: external-call failure inside one cycle stage, isolated
//   - ConnectivityWarning: degraded but usable, logged and carried on
//
// All types support errors.As via the Is* helper functions.
package api
