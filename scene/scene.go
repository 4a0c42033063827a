// Package scene holds a retained document of solid rectangles and a
// software rasterizer for it.
//
// The document is deliberately small: weave patterns decompose into
// axis-aligned rectangle fills, so rectangles are the only primitive.
// Producers build a new root group and swap it in atomically; readers
// rasterize whatever root is current. The version counter lets callers
// skip re-rasterizing an unchanged document.
package scene

import (
	"sync/atomic"

	"github.com/loomkit/weave"
)

// RectNode is one solid axis-aligned rectangle fill.
type RectNode struct {
	X, Y, W, H float32
	Fill       weave.Color
}

// Group is an ordered list of rectangle nodes. Later nodes paint over
// earlier ones.
type Group struct {
	Nodes []RectNode
}

// AddRect appends a rectangle fill to the group.
func (g *Group) AddRect(x, y, w, h float32, fill weave.Color) {
	g.Nodes = append(g.Nodes, RectNode{X: x, Y: y, W: w, H: h, Fill: fill})
}

// Document is the retained scene container. The root group is replaced
// atomically so a render pass never observes a half-built frame.
type Document struct {
	root    atomic.Pointer[Group]
	version atomic.Uint64
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	d := &Document{}
	d.root.Store(&Group{})
	return d
}

// Root returns the current root group. The returned group must be
// treated as immutable.
func (d *Document) Root() *Group {
	return d.root.Load()
}

// ReplaceRoot installs a new root group and bumps the version.
func (d *Document) ReplaceRoot(g *Group) {
	if g == nil {
		g = &Group{}
	}
	d.root.Store(g)
	d.version.Add(1)
}

// Version increases by one on every ReplaceRoot.
func (d *Document) Version() uint64 {
	return d.version.Load()
}
