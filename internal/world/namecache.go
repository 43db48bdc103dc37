package world

// NameCache resolves GUIDs to character names from SMSG_NAME_QUERY
// responses. It is session-local and cleared entry-by-entry on
// SMSG_INVALIDATE_PLAYER, never shared across sessions.
type NameCache struct {
	names map[uint64]string
}

// NewNameCache returns an empty cache.
func NewNameCache() *NameCache {
	return &NameCache{names: make(map[uint64]string)}
}

// Put records guid's resolved name.
func (c *NameCache) Put(guid uint64, name string) {
	c.names[guid] = name
}

// Get returns guid's cached name, if any.
func (c *NameCache) Get(guid uint64) (string, bool) {
	name, ok := c.names[guid]
	return name, ok
}

// Invalidate drops guid's cached entry.
func (c *NameCache) Invalidate(guid uint64) {
	delete(c.names, guid)
}
