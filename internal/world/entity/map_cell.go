package entity

// TerrainData 地形与节点光环。
type TerrainData struct {
	TileTypeID      TileTypeID   `json:"tile_type_id"`
	MapFeatureID    MapFeatureID `json:"map_feature_id,omitempty"`
	RiverDirections string       `json:"river_directions,omitempty"`
	NodeOwnerID     PlayerID     `json:"node_owner_id,omitempty"`
	Corrupted       int          `json:"corrupted,omitempty"`
}

func (t *TerrainData) Clone() *TerrainData {
	if t == nil {
		return nil
	}
	out := *t
	return &out
}

// IsClearedTower 已攻占的巫师之塔让视野和移动跨越位面。
func (t *TerrainData) IsClearedTower() bool {
	return t != nil && t.MapFeatureID == FeatureClearedTower
}

// CityData 城市数据。CurrentlyConstructing*/ProductionSoFar 属于敏感字段，
// 只有城主（或开启 see_enemy_city_construction 时）才会复制给观察者。
type CityData struct {
	OwnerID         PlayerID   `json:"owner_id"`
	RaceID          RaceID     `json:"race_id"`
	CitySizeID      CitySizeID `json:"city_size_id"`
	CityName        string     `json:"city_name"`
	Population      int        `json:"population"`
	NumberOfRebels  int        `json:"number_of_rebels"`
	MinimumFarmers  int        `json:"minimum_farmers"`
	OptionalFarmers int        `json:"optional_farmers"`

	CurrentlyConstructingBuildingID BuildingID `json:"currently_constructing_building_id,omitempty"`
	CurrentlyConstructingUnitID     UnitID     `json:"currently_constructing_unit_id,omitempty"`
	ProductionSoFar                 *int       `json:"production_so_far,omitempty"`
}

func (c *CityData) Clone() *CityData {
	if c == nil {
		return nil
	}
	out := *c
	if c.ProductionSoFar != nil {
		v := *c.ProductionSoFar
		out.ProductionSoFar = &v
	}
	return &out
}

// MapCell 某个 (plane, y, x) 上的地形和城市，均可为空。
type MapCell struct {
	Terrain *TerrainData `json:"terrain,omitempty"`
	City    *CityData    `json:"city,omitempty"`
}

// MapVolume 三维地图，按 [plane][y][x] 存储。
type MapVolume struct {
	cs    CoordinateSystem
	cells [][][]MapCell
}

func NewMapVolume(cs CoordinateSystem) *MapVolume {
	cells := make([][][]MapCell, cs.Depth)
	for p := range cells {
		cells[p] = make([][]MapCell, cs.Height)
		for y := range cells[p] {
			cells[p][y] = make([]MapCell, cs.Width)
		}
	}
	return &MapVolume{cs: cs, cells: cells}
}

func (m *MapVolume) CoordinateSystem() CoordinateSystem {
	return m.cs
}

// At 调用方负责保证坐标合法，越界直接 panic。
func (m *MapVolume) At(c Coordinates) *MapCell {
	return &m.cells[c.Plane][c.Y][c.X]
}

// IsClearedTower 判断 (x,y) 在任一位面上是否为已攻占的巫师之塔。
func (m *MapVolume) IsClearedTower(c Coordinates) bool {
	for p := 0; p < m.cs.Depth; p++ {
		if m.cells[p][c.Y][c.X].Terrain.IsClearedTower() {
			return true
		}
	}
	return false
}

// Each 按 plane/y/x 顺序遍历所有格子。
func (m *MapVolume) Each(fn func(c Coordinates, cell *MapCell)) {
	for p := range m.cells {
		for y := range m.cells[p] {
			for x := range m.cells[p][y] {
				fn(Coordinates{X: x, Y: y, Plane: p}, &m.cells[p][y][x])
			}
		}
	}
}
