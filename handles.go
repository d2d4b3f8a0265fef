package thicket

// handleTable stores correlated data blocks under integer keys so that the
// native userdata slot never holds a Go pointer. A key stays valid until
// unregister is called. Like the registry, it is single-threaded.
type handleTable struct {
	blocks map[uintptr]*spriteData
	nextID uintptr
}

func newHandleTable() handleTable {
	return handleTable{blocks: make(map[uintptr]*spriteData), nextID: 1}
}

// register stores d and returns its userdata key. Zero is never returned.
func (t *handleTable) register(d *spriteData) uintptr {
	id := t.nextID
	t.nextID++
	t.blocks[id] = d
	return id
}

// lookup returns the block for id, or nil if it is not registered.
func (t *handleTable) lookup(id uintptr) *spriteData {
	return t.blocks[id]
}

func (t *handleTable) unregister(id uintptr) {
	delete(t.blocks, id)
}

// count returns the number of live blocks.
func (t *handleTable) count() int {
	return len(t.blocks)
}

// each calls fn for every live block. fn must not register or unregister.
func (t *handleTable) each(fn func(d *spriteData)) {
	for _, d := range t.blocks {
		fn(d)
	}
}
