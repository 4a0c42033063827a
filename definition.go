package weave

// WeaveDefinition describes a periodic two-thread textile pattern.
//
// Threading records, per intersection, whether the warp thread is on top:
// rows are indexed by weft pick modulo the matrix height, columns by warp
// thread modulo the matrix width. WarpColors and WeftColors are applied
// cyclically to warp columns and weft rows; their periods are independent
// of the threading period and of each other, which is what makes striped
// and plaid colorings over a plain weave possible.
//
// The definition is owned by the caller and treated as read-only by every
// renderer.
type WeaveDefinition struct {
	Threading  [][]bool
	WarpColors []string
	WeftColors []string
}

// Size returns the threading matrix dimensions (rows, cols).
// Returns (0, 0) for an empty definition.
func (d *WeaveDefinition) Size() (rows, cols int) {
	if d == nil || len(d.Threading) == 0 {
		return 0, 0
	}
	return len(d.Threading), len(d.Threading[0])
}

// IsEmpty reports whether the definition is in the distinguished "no data"
// state: nil, a missing or zero-sized threading matrix, a ragged threading
// matrix, or an empty palette. An empty definition is not an error; all
// backends render a neutral placeholder for it.
func (d *WeaveDefinition) IsEmpty() bool {
	if d == nil || len(d.Threading) == 0 {
		return true
	}
	cols := len(d.Threading[0])
	if cols == 0 {
		return true
	}
	for _, row := range d.Threading {
		if len(row) != cols {
			return true
		}
	}
	return len(d.WarpColors) == 0 || len(d.WeftColors) == 0
}
