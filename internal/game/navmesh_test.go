package game

import (
	"math"
	"testing"
)

var navTestBounds = Box{MinX: -10, MinZ: -10, MaxX: 10, MaxZ: 10}

func TestNavGrid_UnblockedByDefault(t *testing.T) {
	ng := NewNavGrid(navTestBounds, 0.5, nil, 0)
	if ng.IsBlocked(0, 0) {
		t.Fatal("empty grid should have no blocked cells")
	}
	if ng.IsBlocked(ng.cols-1, ng.rows-1) {
		t.Fatal("corner cell should not be blocked")
	}
	if ng.cols != 40 || ng.rows != 40 {
		t.Fatalf("expected a 40x40 grid, got %dx%d", ng.cols, ng.rows)
	}
}

func TestNavGrid_ObstacleBlocksCells(t *testing.T) {
	ng := NewNavGrid(navTestBounds, 0.5, []Box{BoxAt(0, 0, 2, 2)}, 0)
	cx, cz := ng.WorldToCell(Vec3{1, 0, 1})
	if !ng.IsBlocked(cx, cz) {
		t.Fatal("cell inside obstacle should be blocked")
	}
	cx, cz = ng.WorldToCell(Vec3{-1, 0, 1})
	if ng.IsBlocked(cx, cz) {
		t.Fatal("cell a metre clear should be free")
	}
}

func TestNavGrid_ClearanceGrowsObstacles(t *testing.T) {
	ng := NewNavGrid(navTestBounds, 0.5, []Box{BoxAt(0, 0, 2, 2)}, 0.4)
	cx, cz := ng.WorldToCell(Vec3{-0.3, 0, 1})
	if !ng.IsBlocked(cx, cz) {
		t.Fatal("cell within clearance should be blocked")
	}
}

func TestNavGrid_OOB_IsBlocked(t *testing.T) {
	ng := NewNavGrid(navTestBounds, 0.5, nil, 0)
	if !ng.IsBlocked(-1, 0) || !ng.IsBlocked(0, -1) || !ng.IsBlocked(ng.cols, 0) {
		t.Fatal("out-of-bounds cells should be blocked")
	}
}

func TestNavGrid_CellRoundTrip(t *testing.T) {
	ng := NewNavGrid(navTestBounds, 0.5, nil, 0)
	cx, cz := ng.WorldToCell(Vec3{1.1, 0, -3.9})
	c := ng.CellToWorld(cx, cz)
	if math.Abs(c.X-1.25) > 1e-9 || math.Abs(c.Z+3.75) > 1e-9 {
		t.Fatalf("unexpected cell centre %+v", c)
	}
}

func TestFindPath_AroundWall(t *testing.T) {
	wall := BoxAt(-5, -0.5, 10, 1)
	ng := NewNavGrid(navTestBounds, 0.5, []Box{wall}, 0.4)
	from, to := Vec3{0, 0, -5}, Vec3{0, 0, 5}
	path := ng.FindPath(from, to)
	if path == nil {
		t.Fatal("expected a path around the wall")
	}
	if path[len(path)-1] != to {
		t.Fatalf("path should end on the goal, got %+v", path[len(path)-1])
	}
	length := 0.0
	prev := from
	for _, p := range path {
		if wall.Contains(p) {
			t.Fatalf("waypoint %+v inside the wall", p)
		}
		if !HasLineOfSight(prev, p, []Box{wall}) {
			t.Fatalf("segment %+v -> %+v crosses the wall", prev, p)
		}
		length += prev.Dist(p)
		prev = p
	}
	if length < 14 {
		t.Fatalf("path should detour around the wall, length %.2f", length)
	}
}

func TestFindPath_BlockedOrUnreachable(t *testing.T) {
	ng := NewNavGrid(navTestBounds, 0.5, []Box{BoxAt(-1, -1, 2, 2)}, 0)
	if ng.FindPath(Vec3{5, 0, 5}, Vec3{}) != nil {
		t.Fatal("goal inside an obstacle should have no path")
	}

	ring := []Box{BoxAt(-3, -3, 6, 1), BoxAt(-3, 2, 6, 1), BoxAt(-3, -3, 1, 6), BoxAt(2, -3, 1, 6)}
	ng = NewNavGrid(navTestBounds, 0.5, ring, 0.4)
	if ng.FindPath(Vec3{8, 0, 8}, Vec3{}) != nil {
		t.Fatal("walled-in goal should be unreachable")
	}
}

func TestFindPath_SameCell(t *testing.T) {
	ng := NewNavGrid(navTestBounds, 0.5, nil, 0)
	path := ng.FindPath(Vec3{0.1, 0, 0.1}, Vec3{0.2, 0, 0.2})
	if len(path) != 1 || path[0] != (Vec3{0.2, 0, 0.2}) {
		t.Fatalf("expected a single goal waypoint, got %+v", path)
	}
}

func TestNavigator_FollowsAndReplans(t *testing.T) {
	var nv Navigator
	dest := Vec3{0, 0, 5}
	if got := nv.Next(nil, 0, Vec3{}, dest); got != dest {
		t.Fatal("without a grid the navigator walks straight")
	}

	wall := BoxAt(-5, -0.5, 10, 1)
	ng := NewNavGrid(navTestBounds, 0.5, []Box{wall}, 0.4)
	first := nv.Next(ng, 1, Vec3{0, 0, -5}, dest)
	if first == dest || first.Dist(Vec3{0, 0, -5}) > 1.5 {
		t.Fatalf("first waypoint should be a neighbouring cell, got %+v", first)
	}
	n := len(nv.Path())

	// Rebuilt grid without the wall: the plan is dropped and redone.
	open := NewNavGrid(navTestBounds, 0.5, nil, 0)
	nv.Next(open, 2, Vec3{0, 0, -5}, dest)
	if len(nv.Path()) >= n {
		t.Fatalf("replanned path should be shorter, %d >= %d", len(nv.Path()), n)
	}
	nv.Reset()
	if nv.Path() != nil {
		t.Fatal("reset should drop the path")
	}
}
