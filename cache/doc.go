// Package cache provides a bounded, key-addressed store for computed
// calculation results.
//
// It provides a Store interface with an LRU + TTL memory implementation,
// SHA-256-based key derivation over exact parameter bit patterns, and
// capacity/TTL policies.
package cache
