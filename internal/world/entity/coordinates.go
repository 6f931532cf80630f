package entity

import "fmt"

type Coordinates struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Plane int `json:"plane"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Plane)
}

// SameCell 判断两个坐标是否为同一 (x,y)，不区分位面。
func (c Coordinates) SameCell(o Coordinates) bool {
	return c.X == o.X && c.Y == o.Y
}

// CoordinateSystem 描述地图尺寸和环绕方式。
// 环绕的轴上坐标取模，不环绕的轴上越界坐标视为不存在。
type CoordinateSystem struct {
	Width            int  `json:"width" mapstructure:"width"`
	Height           int  `json:"height" mapstructure:"height"`
	Depth            int  `json:"depth" mapstructure:"depth"`
	WrapsLeftToRight bool `json:"wraps_left_to_right" mapstructure:"wraps_left_to_right"`
	WrapsTopToBottom bool `json:"wraps_top_to_bottom" mapstructure:"wraps_top_to_bottom"`
}

func (cs CoordinateSystem) Contains(c Coordinates) bool {
	return c.X >= 0 && c.X < cs.Width &&
		c.Y >= 0 && c.Y < cs.Height &&
		c.Plane >= 0 && c.Plane < cs.Depth
}

// Normalise 按环绕规则把 (x,y) 折回地图内；不可达时返回 false。
func (cs CoordinateSystem) Normalise(x, y int) (int, int, bool) {
	if cs.WrapsLeftToRight {
		x = mod(x, cs.Width)
	} else if x < 0 || x >= cs.Width {
		return 0, 0, false
	}
	if cs.WrapsTopToBottom {
		y = mod(y, cs.Height)
	} else if y < 0 || y >= cs.Height {
		return 0, 0, false
	}
	return x, y, true
}

// Adjacent 判断同一位面上两个格子是否相邻（8 邻域，考虑环绕）。
func (cs CoordinateSystem) Adjacent(a, b Coordinates) bool {
	if a.Plane != b.Plane || a == b {
		return false
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y, ok := cs.Normalise(a.X+dx, a.Y+dy)
			if ok && x == b.X && y == b.Y {
				return true
			}
		}
	}
	return false
}

func mod(v, n int) int {
	if n <= 0 {
		return v
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
