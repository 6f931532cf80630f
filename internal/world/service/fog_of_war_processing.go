package service

import (
	"context"

	"Arcanus/internal/world/entity"
	"Arcanus/internal/world/service/port"
)

const (
	// CityBaseScoutingRange 没有任何建筑加成时城市的视野半径。
	CityBaseScoutingRange = 2
	// FlightScoutingRange 飞行单位至少拥有的视野半径。
	FlightScoutingRange = 2
	// SpellAnchorScoutingRange 施放在敌方城市/地点上的法术为施法者提供的视野半径。
	SpellAnchorScoutingRange = 1
)

// FogOfWarProcessing 可见区域重算。
type FogOfWarProcessing interface {
	CanSee(fogOfWar *entity.VisibilityGrid, location entity.Coordinates)
	CanSeeRadius(fogOfWar *entity.VisibilityGrid, center entity.Coordinates, radius int) error
	MarkVisibleArea(g *entity.Game, player *entity.Player) error
	UpdateAndSendFogOfWar(ctx context.Context, g *entity.Game, player *entity.Player, triggeredFrom string) error
}

type Processing struct {
	calc   FogOfWarCalculations
	dup    FogOfWarDuplication
	rules  port.Rules
	notify *notifier
}

func NewProcessing(calc FogOfWarCalculations, dup FogOfWarDuplication, rules port.Rules, n *notifier) *Processing {
	return &Processing{calc: calc, dup: dup, rules: rules, notify: n}
}

// CanSee 在重算期间标记一个格子可见。
func (p *Processing) CanSee(fogOfWar *entity.VisibilityGrid, location entity.Coordinates) {
	fogOfWar.Mark(location)
}

// CanSeeRadius 标记中心点切比雪夫距离 radius 以内的所有格子，按地图环绕规则折回。
func (p *Processing) CanSeeRadius(fogOfWar *entity.VisibilityGrid, center entity.Coordinates, radius int) error {
	cs := fogOfWar.CoordinateSystem()
	if err := checkCoordinates(cs, center); err != nil {
		return err
	}
	xLo, xHi := axisRange(center.X, radius, cs.Width, cs.WrapsLeftToRight)
	yLo, yHi := axisRange(center.Y, radius, cs.Height, cs.WrapsTopToBottom)
	for dy := yLo; dy <= yHi; dy++ {
		for dx := xLo; dx <= xHi; dx++ {
			x, y, ok := cs.Normalise(center.X+dx, center.Y+dy)
			if !ok {
				continue
			}
			p.CanSee(fogOfWar, entity.Coordinates{X: x, Y: y, Plane: center.Plane})
		}
	}
	return nil
}

// axisRange 把半径裁剪到地图尺寸内：环绕轴上半径覆盖整轴时每格只走一次，非环绕轴不越过边界。
func axisRange(c, radius, dim int, wraps bool) (int, int) {
	if radius < 0 {
		radius = 0
	}
	if wraps {
		if 2*radius+1 >= dim {
			return -c, dim - 1 - c
		}
		return -radius, radius
	}
	return max(-radius, -c), min(radius, dim-1-c)
}

// canSeeRadiusIfTower 已攻占的巫师之塔连通两个位面，视野同时投射到每个位面。
func (p *Processing) canSeeRadiusIfTower(g *entity.Game, fogOfWar *entity.VisibilityGrid, center entity.Coordinates, radius int) error {
	if err := checkCoordinates(g.Coords, center); err != nil {
		return err
	}
	if !g.TrueMap.Map.IsClearedTower(center) {
		return p.CanSeeRadius(fogOfWar, center, radius)
	}
	for plane := 0; plane < g.Coords.Depth; plane++ {
		at := entity.Coordinates{X: center.X, Y: center.Y, Plane: plane}
		if err := p.CanSeeRadius(fogOfWar, at, radius); err != nil {
			return err
		}
	}
	return nil
}

// MarkVisibleArea 汇总玩家所有视野来源，只写临时标记，不修改永久状态。
func (p *Processing) MarkVisibleArea(g *entity.Game, player *entity.Player) error {
	grid := player.FogOfWar
	trueState := g.TrueMap

	// 洞察术：全部位面全图可见，其余来源无需再算
	if trueState.FindSpellCastBy(player.PlayerID, entity.SpellAwareness) != nil {
		grid.Each(func(c entity.Coordinates, _ *entity.FogCell) {
			p.CanSee(grid, c)
		})
		return nil
	}

	// 自然感知：主位面全图可见，只需再计算能照到其他位面的来源
	coveredPlane := -1
	if trueState.FindSpellCastBy(player.PlayerID, entity.SpellNatureAwareness) != nil {
		coveredPlane = homePlane(trueState, player.PlayerID)
		grid.Each(func(c entity.Coordinates, _ *entity.FogCell) {
			if c.Plane == coveredPlane {
				p.CanSee(grid, c)
			}
		})
	}
	covered := func(c entity.Coordinates) bool {
		return c.Plane == coveredPlane && !trueState.Map.IsClearedTower(c)
	}

	buildingsByCity := make(map[entity.Coordinates][]*entity.Building)
	for _, b := range trueState.Buildings {
		buildingsByCity[b.CityLocation] = append(buildingsByCity[b.CityLocation], b)
	}

	var err error
	trueState.Map.Each(func(c entity.Coordinates, cell *entity.MapCell) {
		if err != nil || cell.City == nil || cell.City.OwnerID != player.PlayerID || covered(c) {
			return
		}
		radius := CityBaseScoutingRange
		for _, b := range buildingsByCity[c] {
			radius += p.rules.BuildingScoutingRange(b.BuildingID)
		}
		err = p.CanSeeRadius(grid, c, radius)
	})
	if err != nil {
		return err
	}

	for _, u := range trueState.Units {
		if u.OwnerID != player.PlayerID || !u.IsAlive() || covered(u.Location) {
			continue
		}
		if err := p.canSeeRadiusIfTower(g, grid, u.Location, p.unitScoutingRange(u)); err != nil {
			return err
		}
	}

	// 施放在敌方城市（或无城市的地点）上的法术让施法者看到该处
	for _, s := range trueState.Spells {
		if s.CastingPlayerID != player.PlayerID || s.CityLocation == nil || covered(*s.CityLocation) {
			continue
		}
		loc := *s.CityLocation
		if err := checkCoordinates(g.Coords, loc); err != nil {
			return err
		}
		if city := trueState.Map.At(loc).City; city != nil && city.OwnerID == player.PlayerID {
			continue
		}
		if err := p.canSeeRadiusIfTower(g, grid, loc, SpellAnchorScoutingRange); err != nil {
			return err
		}
	}
	return nil
}

// unitScoutingRange 基础侦查、飞行加成、侦查技能三者取最大。
func (p *Processing) unitScoutingRange(u *entity.Unit) int {
	radius := p.rules.UnitScoutingRange(u)
	if u.HasSkill(entity.SkillFlight) {
		radius = max(radius, FlightScoutingRange)
	}
	if v, ok := u.Skill(entity.SkillScouting); ok {
		radius = max(radius, v)
	}
	return radius
}

// homePlane 巫师要塞所在位面；没有要塞时为 0。
func homePlane(trueState *entity.FogOfWarMemory, playerID entity.PlayerID) int {
	for _, b := range trueState.Buildings {
		if b.BuildingID != entity.BuildingFortress {
			continue
		}
		if city := trueState.Map.At(b.CityLocation).City; city != nil && city.OwnerID == playerID {
			return b.CityLocation.Plane
		}
	}
	return 0
}
