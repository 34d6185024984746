package prism

import (
	"sync"

	"github.com/agiangrant/prism/geom"
)

// HitTestNode is one node of the retained hit-test tree. Elements
// build these bottom-up at the end of the frame; the window swaps the
// finished tree in atomically, and dispatch walks it until the next
// frame completes.
//
// Bounds, Handlers, Focus, Scroll, and KeyContext are filled by the
// element's HitTest method. Elem and Mask are stamped by the engine:
// Elem with the element's id, Mask with the clip intersection active
// when the element prepainted (zero Mask means unclipped).
type HitTestNode struct {
	Bounds     geom.Bounds
	Mask       geom.Bounds
	Handlers   *HandlerSet
	Focus      FocusID
	Scroll     ScrollHandleID
	KeyContext string
	Children   []*HitTestNode
	Elem       ElementID
}

func (n *HitTestNode) contains(p geom.Point) bool {
	if !n.Bounds.Contains(p) {
		return false
	}
	if n.Mask != (geom.Bounds{}) && !n.Mask.Contains(p) {
		return false
	}
	return true
}

// HitTest finds the deepest node containing p and returns the full
// root-to-leaf path to it. Roots and children are scanned in reverse
// insertion order so the last-painted, visually topmost subtree wins
// overlapping hits. Returns nil when nothing contains p.
//
// The walk prunes at non-containing nodes: a child outside its
// parent's bounds is unreachable, which is why overlay subtrees attach
// as extra top-level nodes instead of nesting under their trigger.
func HitTest(roots []*HitTestNode, p geom.Point) []*HitTestNode {
	return hitTestInto(roots, p, nil)
}

func hitTestInto(roots []*HitTestNode, p geom.Point, path []*HitTestNode) []*HitTestNode {
	for i := len(roots) - 1; i >= 0; i-- {
		if found := hitTestNode(roots[i], p, path); found != nil {
			return found
		}
	}
	return nil
}

func hitTestNode(n *HitTestNode, p geom.Point, path []*HitTestNode) []*HitTestNode {
	if n == nil || !n.contains(p) {
		return nil
	}
	path = append(path, n)
	for i := len(n.Children) - 1; i >= 0; i-- {
		if deeper := hitTestNode(n.Children[i], p, path); deeper != nil {
			return deeper
		}
	}
	return path
}

// focusedPath returns the path to the deepest node whose focus handle
// is currently in the stack, preferring later-painted subtrees on
// depth ties. Key events bubble along this path, not the pointer's.
func focusedPath(roots []*HitTestNode, stack *focusStack, scratch []*HitTestNode) []*HitTestNode {
	best := scratch[:0]
	var walk func(n *HitTestNode, trail []*HitTestNode)
	walk = func(n *HitTestNode, trail []*HitTestNode) {
		if n == nil {
			return
		}
		trail = append(trail, n)
		// Strictly-deeper-only replacement keeps the first find on
		// depth ties, and the scan order makes that the topmost branch.
		if n.Focus != 0 && stack.Contains(n.Focus) && len(trail) > len(best) {
			best = append(best[:0], trail...)
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			walk(n.Children[i], trail)
		}
	}
	for i := len(roots) - 1; i >= 0; i-- {
		walk(roots[i], nil)
	}
	if len(best) == 0 {
		return nil
	}
	return best
}

// keyContexts collects the non-empty KeyContext labels along a path,
// root to leaf. An external keybinding resolver consumes the chain;
// the engine only assembles it.
func keyContexts(path []*HitTestNode, into []string) []string {
	for _, n := range path {
		if n.KeyContext != "" {
			into = append(into, n.KeyContext)
		}
	}
	return into
}

// nodePathPool pools path slices for hit tests and hover tracking.
// Dispatch runs on every mouse move; without reuse each move allocates.
var nodePathPool = sync.Pool{
	New: func() any {
		return make([]*HitTestNode, 0, 16)
	},
}

// acquirePath gets an empty path slice from the pool.
func acquirePath() []*HitTestNode {
	return nodePathPool.Get().([]*HitTestNode)[:0]
}

// releasePath returns a path to the pool. The slice must not be used
// after release.
func releasePath(path []*HitTestNode) {
	if path == nil {
		return
	}
	for i := range path {
		path[i] = nil
	}
	if cap(path) <= 64 {
		nodePathPool.Put(path[:0])
	}
}
