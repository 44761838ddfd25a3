package market

import "sync"

// Cache holds the two independently lifecycled stores behind one lock: the
// full-market ETF snapshot and the per-symbol equity close map. The close
// map is only valid for the trading day it was populated in and is cleared
// wholesale at the next session open.
type Cache struct {
	mu          sync.Mutex
	etf         SnapshotTable
	equityClose map[string]Quote
}

func NewCache() *Cache {
	return &Cache{equityClose: make(map[string]Quote)}
}

// EtfSnapshot returns a copy of the current snapshot, stable even if a
// refresh swaps the table underneath. Nil when nothing has been published.
func (c *Cache) EtfSnapshot() SnapshotTable {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.etf == nil {
		return nil
	}
	out := make(SnapshotTable, len(c.etf))
	for code, q := range c.etf {
		out[code] = q
	}
	return out
}

// ReplaceEtfSnapshot atomically swaps in a new snapshot. The old table is
// superseded whole, never merged into.
func (c *Cache) ReplaceEtfSnapshot(table SnapshotTable) {
	c.mu.Lock()
	c.etf = table
	c.mu.Unlock()
}

func (c *Cache) LookupEquityClose(symbol string) (Quote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.equityClose[symbol]
	return q, ok
}

// StoreEquityClose records a close price; only called outside trading hours.
func (c *Cache) StoreEquityClose(symbol string, q Quote) {
	c.mu.Lock()
	c.equityClose[symbol] = q
	c.mu.Unlock()
}

// ClearEquityCache drops every close entry and reports how many were held.
func (c *Cache) ClearEquityCache() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.equityClose)
	if n > 0 {
		c.equityClose = make(map[string]Quote)
	}
	return n
}
