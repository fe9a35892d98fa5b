package layout

// Arena is the bump allocator of §5: a caller-supplied scratch area for the
// transient field-type slices lowering builds up while walking a layout
// tree. Go's GC means nothing here actually needs manual freeing; Arena
// exists to mirror the original's bumpalo::Bump (see original_source's
// `Vec<'a, u8>` / `Vec<'a, Relocation>` parameters) so TargetEnv keeps the
// same shape. Lower does not allocate from it: its field-type slices are
// ordinary Go slices, and the types.Type values it returns are owned by the
// caller's type-system context, independent of the arena.
type Arena struct {
	scratch [][]interface{}
}

// NewArena returns a fresh, empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// fieldSlice returns a zero-length slice with capacity n, tracked by the
// arena purely for accounting symmetry with the original's bump-allocated
// vectors; Go's allocator already reuses the backing array on append.
func (a *Arena) fieldSlice(n int) []interface{} {
	s := make([]interface{}, 0, n)
	a.scratch = append(a.scratch, s)
	return s
}

// Reset discards everything the arena has handed out. Safe to call between
// independent lowering passes sharing one TargetEnv.
func (a *Arena) Reset() {
	a.scratch = a.scratch[:0]
}
