// Package session implements the cluster session core: parsing cluster
// credentials, issuing unguessable session tokens, storing active sessions
// in memory and probing cluster connectivity at creation time.
//
// A session is usable if and only if it has not expired. Expiry is enforced
// lazily at read time, so the registry never hands out a stale session even
// if the entry is still physically present.
package session
