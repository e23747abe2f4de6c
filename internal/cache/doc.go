// Package cache provides a small generic LRU cache.
//
//	c := cache.New[string, float64](256)
//	c.Set("hello", 31.5)
//	w, ok := c.Get("hello")
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
