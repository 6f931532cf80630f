package entity

// Game 一局游戏的全部服务端状态：唯一的真实世界 + 所有玩家 + 策略配置。
// 同一会话内只允许一个 goroutine（会话 actor）读写。
type Game struct {
	SessionID SessionID
	Coords    CoordinateSystem
	TrueMap   *FogOfWarMemory
	Players   []*Player
	Settings  FogOfWarSettings

	nextBuildingURN         BuildingURN
	nextUnitURN             UnitURN
	nextSpellURN            SpellURN
	nextCombatAreaEffectURN CombatAreaEffectURN
}

func NewGame(id SessionID, cs CoordinateSystem, settings FogOfWarSettings) *Game {
	return &Game{
		SessionID: id,
		Coords:    cs,
		TrueMap:   NewFogOfWarMemory(cs),
		Settings:  settings,
	}
}

// AddPlayer 创建并登记一个玩家，返回该玩家。
func (g *Game) AddPlayer(id PlayerID, name string, human bool) *Player {
	p := NewPlayer(id, name, human, g.Coords)
	g.Players = append(g.Players, p)
	return p
}

func (g *Game) FindPlayer(id PlayerID) *Player {
	for _, p := range g.Players {
		if p.PlayerID == id {
			return p
		}
	}
	return nil
}

func (g *Game) NextBuildingURN() BuildingURN {
	g.nextBuildingURN++
	return g.nextBuildingURN
}

func (g *Game) NextUnitURN() UnitURN {
	g.nextUnitURN++
	return g.nextUnitURN
}

func (g *Game) NextSpellURN() SpellURN {
	g.nextSpellURN++
	return g.nextSpellURN
}

func (g *Game) NextCombatAreaEffectURN() CombatAreaEffectURN {
	g.nextCombatAreaEffectURN++
	return g.nextCombatAreaEffectURN
}

// ReserveURNs 把计数器推进到至少给定值，用于外部已分配 URN 的实体（初始布局、测试夹具）。
func (g *Game) ReserveURNs(building BuildingURN, unit UnitURN, spell SpellURN, cae CombatAreaEffectURN) {
	g.nextBuildingURN = max(g.nextBuildingURN, building)
	g.nextUnitURN = max(g.nextUnitURN, unit)
	g.nextSpellURN = max(g.nextSpellURN, spell)
	g.nextCombatAreaEffectURN = max(g.nextCombatAreaEffectURN, cae)
}
