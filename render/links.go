package render

import (
	"cmp"
	"math"
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/plus3/sightfield/field"
)

// LinkMode selects how the proximity graph is computed. Every mode yields
// the same links; they differ only in cost.
type LinkMode uint8

const (
	// LinkAuto uses the grid once the population exceeds GridThreshold.
	LinkAuto LinkMode = iota
	// LinkBrute tests every unordered pair.
	LinkBrute
	// LinkGrid buckets particles into radius-sized cells and only tests
	// neighbouring cells.
	LinkGrid
)

func (m LinkMode) String() string {
	switch m {
	case LinkAuto:
		return "auto"
	case LinkBrute:
		return "brute"
	case LinkGrid:
		return "grid"
	}
	return "unknown"
}

// ParseLinkMode is the inverse of LinkMode.String.
func ParseLinkMode(s string) (LinkMode, bool) {
	for _, m := range []LinkMode{LinkAuto, LinkBrute, LinkGrid} {
		if m.String() == s {
			return m, true
		}
	}
	return LinkAuto, false
}

// Link is an edge of the proximity graph. A < B always holds, so a pair has
// exactly one representation regardless of iteration order. Alpha is the
// proximity fraction (radius-d)/radius in (0,1].
type Link struct {
	A, B  int
	Alpha float64
}

func proximity(a, b *field.Particle, radius float64) (float64, bool) {
	d := math.Hypot(a.X-b.X, a.Y-b.Y)
	if d >= radius {
		return 0, false
	}
	return (radius - d) / radius, true
}

// BruteLinks appends every pair closer than radius to dst in (A,B) order.
func BruteLinks(dst []Link, ps []field.Particle, radius float64) []Link {
	if radius <= 0 {
		return dst
	}
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if alpha, ok := proximity(&ps[i], &ps[j], radius); ok {
				dst = append(dst, Link{A: i, B: j, Alpha: alpha})
			}
		}
	}
	return dst
}

// Grid is a reusable spatial hash for the proximity graph.
type Grid struct {
	cell  float64
	cells *intmap.Map[uint64, []int]
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{cells: intmap.New[uint64, []int](256)}
}

func cellKey(cx, cy int) uint64 {
	return uint64(uint32(cx))<<32 | uint64(uint32(cy))
}

func (g *Grid) cellOf(p *field.Particle) (int, int) {
	return int(math.Floor(p.X / g.cell)), int(math.Floor(p.Y / g.cell))
}

// Links appends every pair closer than radius to dst in (A,B) order.
func (g *Grid) Links(dst []Link, ps []field.Particle, radius float64) []Link {
	if radius <= 0 || len(ps) < 2 {
		return dst
	}

	g.cell = radius
	g.cells.Clear()
	for i := range ps {
		key := cellKey(g.cellOf(&ps[i]))
		bucket, _ := g.cells.Get(key)
		g.cells.Put(key, append(bucket, i))
	}

	start := len(dst)
	for i := range ps {
		cx, cy := g.cellOf(&ps[i])
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				bucket, ok := g.cells.Get(cellKey(cx+dx, cy+dy))
				if !ok {
					continue
				}
				for _, j := range bucket {
					if j <= i {
						continue
					}
					if alpha, ok := proximity(&ps[i], &ps[j], radius); ok {
						dst = append(dst, Link{A: i, B: j, Alpha: alpha})
					}
				}
			}
		}
	}

	slices.SortFunc(dst[start:], func(a, b Link) int {
		if c := cmp.Compare(a.A, b.A); c != 0 {
			return c
		}
		return cmp.Compare(a.B, b.B)
	})
	return dst
}
