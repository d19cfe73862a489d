package game

import (
	"container/heap"
	"math"
)

// navCellSize is the default grid resolution in metres.
const navCellSize = 0.5

// navMargin pads the arena bounds so agents can path around the outermost
// obstacles.
const navMargin = 8.0

// NavGrid is a walkability grid over the ground plane where true = blocked.
type NavGrid struct {
	minX, minZ float64
	cell       float64
	cols       int
	rows       int
	blocked    []bool
}

// NewNavGrid rasterises obstacles into a grid covering bounds. Each cell
// that overlaps an obstacle grown by clearance is blocked.
func NewNavGrid(bounds Box, cell float64, obstacles []Box, clearance float64) *NavGrid {
	if cell <= 0 {
		cell = navCellSize
	}
	cols := max(1, int(math.Ceil((bounds.MaxX-bounds.MinX)/cell)))
	rows := max(1, int(math.Ceil((bounds.MaxZ-bounds.MinZ)/cell)))
	ng := &NavGrid{
		minX:    bounds.MinX,
		minZ:    bounds.MinZ,
		cell:    cell,
		cols:    cols,
		rows:    rows,
		blocked: make([]bool, cols*rows),
	}

	for _, b := range obstacles {
		c0x, c0z := ng.WorldToCell(Vec3{X: b.MinX - clearance, Z: b.MinZ - clearance})
		c1x, c1z := ng.WorldToCell(Vec3{X: b.MaxX + clearance, Z: b.MaxZ + clearance})
		c0x, c0z = max(0, c0x), max(0, c0z)
		c1x, c1z = min(cols-1, c1x), min(rows-1, c1z)
		for cz := c0z; cz <= c1z; cz++ {
			for cx := c0x; cx <= c1x; cx++ {
				ng.blocked[cz*cols+cx] = true
			}
		}
	}
	return ng
}

// CellSize returns the grid resolution in metres.
func (ng *NavGrid) CellSize() float64 { return ng.cell }

// IsBlocked returns true if the cell at (cx, cz) is not walkable.
func (ng *NavGrid) IsBlocked(cx, cz int) bool {
	if cx < 0 || cz < 0 || cx >= ng.cols || cz >= ng.rows {
		return true
	}
	return ng.blocked[cz*ng.cols+cx]
}

// WorldToCell converts a ground position to grid cell coordinates.
func (ng *NavGrid) WorldToCell(p Vec3) (int, int) {
	return int(math.Floor((p.X - ng.minX) / ng.cell)), int(math.Floor((p.Z - ng.minZ) / ng.cell))
}

// CellToWorld converts grid cell coordinates to the cell centre.
func (ng *NavGrid) CellToWorld(cx, cz int) Vec3 {
	return Vec3{
		X: ng.minX + (float64(cx)+0.5)*ng.cell,
		Z: ng.minZ + (float64(cz)+0.5)*ng.cell,
	}
}

// --- A* pathfinding ---

type pathNode struct {
	cx, cz int
	g, h   float64
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int           { return len(ol) }
func (ol openList) Less(i, j int) bool { return (ol[i].g + ol[i].h) < (ol[j].g + ol[j].h) }
func (ol openList) Swap(i, j int)      { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) {
	n := x.(*pathNode)
	n.index = len(*ol)
	*ol = append(*ol, n)
}
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

var dirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// FindPath returns ground waypoints from one position to another, ending
// exactly on to. The start cell may be blocked (an agent brushing a wall);
// a blocked goal or an unreachable one returns nil.
func (ng *NavGrid) FindPath(from, to Vec3) []Vec3 {
	scx, scz := ng.WorldToCell(from)
	gcx, gcz := ng.WorldToCell(to)

	if ng.IsBlocked(gcx, gcz) {
		return nil
	}
	if scx == gcx && scz == gcz {
		return []Vec3{to.Flat()}
	}

	key := func(cx, cz int) int { return cz*ng.cols + cx }
	heuristic := func(ax, az, bx, bz int) float64 {
		dx := math.Abs(float64(ax - bx))
		dz := math.Abs(float64(az - bz))
		return dx + dz + (math.Sqrt2-2)*math.Min(dx, dz)
	}

	start := &pathNode{cx: scx, cz: scz, h: heuristic(scx, scz, gcx, gcz)}
	ol := &openList{start}
	heap.Init(ol)

	closed := make(map[int]bool)
	best := make(map[int]*pathNode)
	best[key(scx, scz)] = start

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.cx == gcx && cur.cz == gcz {
			return ng.buildPath(cur, to)
		}
		k := key(cur.cx, cur.cz)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, d := range dirs {
			nx, nz := cur.cx+d[0], cur.cz+d[1]
			if ng.IsBlocked(nx, nz) {
				continue
			}
			// No diagonal corner-cutting through blocked cells.
			if d[0] != 0 && d[1] != 0 {
				if ng.IsBlocked(cur.cx+d[0], cur.cz) || ng.IsBlocked(cur.cx, cur.cz+d[1]) {
					continue
				}
			}
			nk := key(nx, nz)
			if closed[nk] {
				continue
			}
			cost := 1.0
			if d[0] != 0 && d[1] != 0 {
				cost = math.Sqrt2
			}
			g := cur.g + cost
			if prev, ok := best[nk]; ok && g >= prev.g {
				continue
			}
			node := &pathNode{cx: nx, cz: nz, g: g, h: heuristic(nx, nz, gcx, gcz), parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

// buildPath walks parents back from end, dropping the start cell and
// replacing the goal cell centre with the exact goal.
func (ng *NavGrid) buildPath(end *pathNode, goal Vec3) []Vec3 {
	var cells [][2]int
	for n := end; n.parent != nil; n = n.parent {
		cells = append(cells, [2]int{n.cx, n.cz})
	}
	path := make([]Vec3, len(cells))
	for i, c := range cells {
		path[len(cells)-1-i] = ng.CellToWorld(c[0], c[1])
	}
	path[len(path)-1] = goal.Flat()
	return path
}

// Navigator follows NavGrid paths for one agent. It replans when the
// destination drifts by more than a cell or the grid is rebuilt.
type Navigator struct {
	path    []Vec3
	dest    Vec3
	version int
	planned bool
}

// Next returns the point the agent should walk toward this tick. With no
// grid, or no path, it falls back to the destination itself.
func (nv *Navigator) Next(grid *NavGrid, version int, pos, dest Vec3) Vec3 {
	if grid == nil {
		return dest
	}
	if !nv.planned || nv.version != version || nv.dest.Flat().Dist(dest.Flat()) > grid.cell {
		nv.path = grid.FindPath(pos, dest)
		nv.dest = dest
		nv.version = version
		nv.planned = true
	}
	if len(nv.path) == 0 {
		return dest
	}
	for len(nv.path) > 1 && pos.Flat().Dist(nv.path[0]) < grid.cell*0.5 {
		nv.path = nv.path[1:]
	}
	return nv.path[0]
}

// Path returns the remaining waypoints.
func (nv *Navigator) Path() []Vec3 { return nv.path }

// Reset drops the current plan.
func (nv *Navigator) Reset() {
	nv.path = nil
	nv.planned = false
}
