package cache

import (
	"fmt"
	"math"
	"sync"
)

// ShockStyle is a resolved map-marker style for a shock magnitude. Styles are
// pure functions of their inputs, which makes them safe to memoize.
type ShockStyle struct {
	Color   string  `json:"color"`
	Radius  float64 `json:"radius"`
	Opacity float64 `json:"opacity"`
}

// StyleCacheStats tracks cache performance.
type StyleCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
}

// StyleCache memoizes resolved marker styles keyed strictly by (magnitude,
// color). It carries no external mutable state, so entries can never go
// stale; Clear exists for callers that reload their palette.
type StyleCache struct {
	mu     sync.RWMutex
	styles map[string]ShockStyle
	stats  StyleCacheStats
}

// NewStyleCache creates an empty style cache.
func NewStyleCache() *StyleCache {
	return &StyleCache{
		styles: make(map[string]ShockStyle),
	}
}

// Get returns the memoized style for (magnitude, color) if present.
func (c *StyleCache) Get(magnitude float64, color string) (ShockStyle, bool) {
	key := styleKey(magnitude, color)

	c.mu.Lock()
	defer c.mu.Unlock()

	style, ok := c.styles[key]
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	return style, ok
}

// Set stores the resolved style for (magnitude, color).
func (c *StyleCache) Set(magnitude float64, color string, style ShockStyle) {
	key := styleKey(magnitude, color)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.styles[key] = style
	c.stats.Sets++
}

// Resolve returns the style for (magnitude, color), computing and memoizing
// it on first use. Radius grows with the square root of magnitude so large
// shocks do not dominate the map; opacity is fixed.
func (c *StyleCache) Resolve(magnitude float64, color string) ShockStyle {
	if style, ok := c.Get(magnitude, color); ok {
		return style
	}

	if magnitude < 0 || math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		magnitude = 0
	}
	style := ShockStyle{
		Color:   color,
		Radius:  4 + 2*math.Sqrt(magnitude),
		Opacity: 0.8,
	}
	c.Set(magnitude, color, style)
	return style
}

// Clear drops all memoized styles and resets stats.
func (c *StyleCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.styles = make(map[string]ShockStyle)
	c.stats = StyleCacheStats{}
}

// Stats returns a copy of the current cache statistics.
func (c *StyleCache) Stats() StyleCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// Len returns the number of memoized entries.
func (c *StyleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.styles)
}

func styleKey(magnitude float64, color string) string {
	// Two decimal places of magnitude are enough to distinguish marker sizes.
	return fmt.Sprintf("%.2f:%s", magnitude, color)
}
