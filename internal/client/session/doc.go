// Package session owns the access/refresh token pair on the client.
//
// Tokens live in one of two tiers. The durable tier survives restarts and
// may be shared with other client processes; the session tier is process
// memory. At most one tier holds a given key at any time. The Manager
// enforces this by clearing the other tier before every write.
//
// A nil Store stands for a tier that is not available in this process.
// Reads from it find nothing and writes to it are skipped.
package session
