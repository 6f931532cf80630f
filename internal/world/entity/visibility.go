package entity

// PermanentVisibility 回合之间保存的可见性状态。
type PermanentVisibility int8

const (
	NeverSeen PermanentVisibility = iota
	HaveSeen
	CanSee
)

func (v PermanentVisibility) String() string {
	switch v {
	case NeverSeen:
		return "NEVER_SEEN"
	case HaveSeen:
		return "HAVE_SEEN"
	case CanSee:
		return "CAN_SEE"
	}
	return "UNKNOWN"
}

// RecomputeMarker 只在一次可见性重算期间存在，结束时折叠回永久状态。
type RecomputeMarker int8

const (
	MarkerNone RecomputeMarker = iota
	MarkerSeeingForFirstTime
	MarkerRegainedAfterLoss
	MarkerContinuouslySeen
)

func (m RecomputeMarker) String() string {
	switch m {
	case MarkerNone:
		return "NONE"
	case MarkerSeeingForFirstTime:
		return "SEEING_FOR_FIRST_TIME"
	case MarkerRegainedAfterLoss:
		return "REGAINED_AFTER_LOSS"
	case MarkerContinuouslySeen:
		return "CONTINUOUSLY_SEEN"
	}
	return "UNKNOWN"
}

// markerFor 由重算前的永久状态决定临时标记。
func markerFor(prior PermanentVisibility) RecomputeMarker {
	switch prior {
	case NeverSeen:
		return MarkerSeeingForFirstTime
	case HaveSeen:
		return MarkerRegainedAfterLoss
	default:
		return MarkerContinuouslySeen
	}
}

// FogCell 一个格子的可见性：永久状态 + 重算期间的临时标记。
type FogCell struct {
	State  PermanentVisibility
	Marker RecomputeMarker
}

// VisibilityGrid 每个玩家独有的三维可见性网格，从不共享。
type VisibilityGrid struct {
	cs    CoordinateSystem
	cells [][][]FogCell
}

func NewVisibilityGrid(cs CoordinateSystem) *VisibilityGrid {
	cells := make([][][]FogCell, cs.Depth)
	for p := range cells {
		cells[p] = make([][]FogCell, cs.Height)
		for y := range cells[p] {
			cells[p][y] = make([]FogCell, cs.Width)
		}
	}
	return &VisibilityGrid{cs: cs, cells: cells}
}

func (g *VisibilityGrid) CoordinateSystem() CoordinateSystem {
	return g.cs
}

func (g *VisibilityGrid) At(c Coordinates) FogCell {
	return g.cells[c.Plane][c.Y][c.X]
}

// State 返回永久状态，忽略重算标记。
func (g *VisibilityGrid) State(c Coordinates) PermanentVisibility {
	return g.cells[c.Plane][c.Y][c.X].State
}

// SetState 直接设置永久状态并清除标记，仅供初始化/测试使用。
func (g *VisibilityGrid) SetState(c Coordinates, s PermanentVisibility) {
	g.cells[c.Plane][c.Y][c.X] = FogCell{State: s}
}

// Mark 依据重算前的永久状态打上临时标记；同一次重算内重复调用无副作用。
func (g *VisibilityGrid) Mark(c Coordinates) {
	cell := &g.cells[c.Plane][c.Y][c.X]
	if cell.Marker == MarkerNone {
		cell.Marker = markerFor(cell.State)
	}
}

// ClearMarkers 丢弃所有临时标记（放弃一次未完成的重算时使用）。
func (g *VisibilityGrid) ClearMarkers() {
	g.Each(func(_ Coordinates, cell *FogCell) {
		cell.Marker = MarkerNone
	})
}

// Collapse 把临时标记折叠回永久状态：有标记 -> CAN_SEE；无标记的 CAN_SEE -> HAVE_SEEN。
// 返回永久状态发生变化的格子。
func (g *VisibilityGrid) Collapse() []Coordinates {
	var changed []Coordinates
	g.Each(func(c Coordinates, cell *FogCell) {
		next := cell.State
		switch {
		case cell.Marker != MarkerNone:
			next = CanSee
		case cell.State == CanSee:
			next = HaveSeen
		}
		if next != cell.State {
			changed = append(changed, c)
		}
		*cell = FogCell{State: next}
	})
	return changed
}

func (g *VisibilityGrid) Each(fn func(c Coordinates, cell *FogCell)) {
	for p := range g.cells {
		for y := range g.cells[p] {
			for x := range g.cells[p][y] {
				fn(Coordinates{X: x, Y: y, Plane: p}, &g.cells[p][y][x])
			}
		}
	}
}

// Counts 统计各永久状态的格子数量。
func (g *VisibilityGrid) Counts() map[PermanentVisibility]int {
	out := make(map[PermanentVisibility]int, 3)
	g.Each(func(_ Coordinates, cell *FogCell) {
		out[cell.State]++
	})
	return out
}
