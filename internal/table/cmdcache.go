package table

// CmdCache remembers, for each external command name ever resolved, the
// $path directory it was found in. It must be reset whenever the `path`
// variable changes, since a cached hit may no longer be the first match —
// rc's which.c enforces this by flushing the whole table on any assignment
// to path rather than tracking per-entry validity. internal/probe owns that
// wiring (Prober.Which empties the cache when it sees a changed $path);
// CmdCache itself just exposes Reset.
type CmdCache struct {
	t *openTable[string]
}

func newCmdCache() *CmdCache {
	return &CmdCache{t: newOpenTable[string]()}
}

// Lookup returns the cached directory for name, if any.
func (c *CmdCache) Lookup(name string) (string, bool) {
	return c.t.lookup(name)
}

// Set records that name was found in directory dir.
func (c *CmdCache) Set(name, dir string) {
	idx, _ := c.t.place(name)
	c.t.slots[idx].val = dir
}

// Delete drops a single cached entry, used when a command is known to have
// disappeared (e.g. exec failed with ENOENT after a cache hit).
func (c *CmdCache) Delete(name string) bool {
	return c.t.delete(name)
}

// Reset empties the whole cache. Prober.Which calls it when $path has
// changed since its previous lookup.
func (c *CmdCache) Reset() {
	c.t.reset()
}

func (c *CmdCache) Size() int { return c.t.size() }
