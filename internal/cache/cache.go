// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

// Package cache provides a thread-safe in-memory cache with TTL support,
// used to shield the INPE and FIRMS upstreams from repeated identical
// requests within a short window.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/focomapa/focomapa/internal/metrics"
)

type entry struct {
	data      interface{}
	expiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache. Each cache carries a
// name used as the cache_type label on Prometheus hit/miss counters.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	name    string
	ttl     time.Duration

	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	lastCleanup atomic.Int64 // unix nanos

	quit      chan struct{}
	closeOnce sync.Once
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// New creates a named cache with the given default TTL and starts a
// background goroutine that evicts expired entries at cleanupInterval.
//
// Example:
//
//	c := cache.New("recents", 60*time.Second, 5*time.Minute)
//	c.Set("recents:latest", payload)
//	if data, ok := c.Get("recents:latest"); ok {
//	    // use cached payload
//	}
func New(name string, ttl, cleanupInterval time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		name:    name,
		ttl:     ttl,
		quit:    make(chan struct{}),
	}
	c.lastCleanup.Store(time.Now().UnixNano())

	go c.cleanupLoop(cleanupInterval)

	return c
}

// Close stops the background cleanup goroutine. The cache itself
// remains usable; entries simply stop being swept. Safe to call more
// than once.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		close(c.quit)
	})
}

// Get retrieves a value by key. Entries past their deadline are
// removed on access and counted as misses.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.miss()
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		c.evictions.Add(1)
		c.miss()
		return nil, false
	}

	c.hits.Add(1)
	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return e.data, true
}

// Set stores a value with the cache's default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{data: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Delete removes one entry. Safe to call with non-existent keys.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	c.evictions.Add(1)
}

// Clear drops every entry at once. Called after a collector refresh so
// clients see fresh data immediately.
func (c *Cache) Clear() {
	c.mu.Lock()
	dropped := int64(len(c.entries))
	c.entries = make(map[string]entry)
	c.mu.Unlock()

	c.evictions.Add(dropped)
}

// GetStats returns a snapshot of the cache counters.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	keys := int64(len(c.entries))
	c.mu.RUnlock()

	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		TotalKeys:   keys,
		LastCleanup: time.Unix(0, c.lastCleanup.Load()),
	}
}

// HitRate returns the cache hit rate as a percentage.
func (c *Cache) HitRate() float64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	if hits+misses == 0 {
		return 0.0
	}
	return float64(hits) / float64(hits+misses) * 100.0
}

func (c *Cache) miss() {
	c.misses.Add(1)
	metrics.CacheMisses.WithLabelValues(c.name).Inc()
}

// cleanupLoop runs the expired-entry sweep at the given interval until
// Close is called.
func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.quit:
			return
		}
	}
}

// cleanup evicts every entry past its deadline.
func (c *Cache) cleanup() {
	now := time.Now()

	c.mu.Lock()
	var dropped int64
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			dropped++
		}
	}
	c.mu.Unlock()

	c.evictions.Add(dropped)
	c.lastCleanup.Store(now.UnixNano())
}

// GenerateKey derives a compact cache key from the endpoint name and
// its parameters: sha256 over the JSON encoding, truncated to 16
// bytes. Falls back to %v formatting if the parameters fail to encode.
func GenerateKey(method string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
