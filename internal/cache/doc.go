// Package cache provides a file-based TTL cache for research synthesis and
// provider review responses, keyed by SHA-256 of the request material.
package cache
