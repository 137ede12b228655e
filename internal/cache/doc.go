// Package cache implements the disk tier of the blob cache. Every entry is a
// single file directly under <root>/<Product>.ImageCache.<Name>; the file's
// access time records the last access and its modification time records the
// estimated expiration, so no sidecar index is kept. Backend maps keys to file
// names (optionally hashed), short-circuits definite misses through an
// in-memory existence index, and exposes the expired and size-exceeded sweeps
// that Sweeper runs periodically. Values cross the package boundary through a
// Codec so callers decide how bytes are produced.
package cache
