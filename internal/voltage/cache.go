package voltage

// Key identifies the configuration a lookup table was built for. Any field
// change yields a different key, so a stale table can never be served.
type Key struct {
	MagnetCount  int
	MagnetRadius float64
	PathRadius   float64
	Pattern      string
	Field        float64
	Samples      int
	Sigma        float64
}

// Cache holds built tables by key. Entries are never mutated; a changed
// configuration builds a fresh table under its new key.
type Cache struct {
	tables map[Key]*Table
}

func NewCache() *Cache {
	return &Cache{tables: make(map[Key]*Table)}
}

// Get returns the cached table for k, building and storing it on first use.
func (c *Cache) Get(k Key, build func() *Table) *Table {
	if tb, ok := c.tables[k]; ok {
		return tb
	}
	tb := build()
	c.tables[k] = tb
	return tb
}

func (c *Cache) Len() int {
	return len(c.tables)
}
