package service

import (
	"context"

	"Arcanus/internal/world/dto"
	"Arcanus/internal/world/entity"
	"Arcanus/modules/kit/logx"

	"go.uber.org/zap"
)

type fakeRules struct {
	buildingRange   map[entity.BuildingID]int
	unitRange       int
	realm           entity.MagicRealmID
	healEligible    bool
	expEligible     bool
	monsterFeatures map[entity.MapFeatureID]bool
}

func (r *fakeRules) BuildingScoutingRange(id entity.BuildingID) int { return r.buildingRange[id] }
func (r *fakeRules) UnitScoutingRange(unit *entity.Unit) int       { return r.unitRange }
func (r *fakeRules) UnitMagicRealm(unit *entity.Unit) entity.MagicRealmID {
	return r.realm
}
func (r *fakeRules) HealEligible(realm entity.MagicRealmID) bool       { return r.healEligible }
func (r *fakeRules) ExperienceEligible(realm entity.MagicRealmID) bool { return r.expEligible }
func (r *fakeRules) MapFeatureHostsMonsters(id entity.MapFeatureID) bool {
	return r.monsterFeatures[id]
}

func newFakeRules() *fakeRules {
	return &fakeRules{buildingRange: map[entity.BuildingID]int{}, monsterFeatures: map[entity.MapFeatureID]bool{}}
}

func newRecordingConnections() *recordingConnections {
	return &recordingConnections{offline: map[entity.PlayerID]bool{}, failFor: map[entity.PlayerID]error{}}
}

type fakeUnitStats struct {
	speed     int
	hitPoints map[entity.UnitURN]int
}

func (s *fakeUnitStats) MovementSpeed(unit *entity.Unit) int { return s.speed }
func (s *fakeUnitStats) FullHitPoints(unit *entity.Unit) int { return s.hitPoints[unit.UnitURN] }

type sentMessage struct {
	player entity.PlayerID
	msg    dto.ClientMessage
}

// recordingConnections 按发送顺序记录消息。
type recordingConnections struct {
	sent    []sentMessage
	offline map[entity.PlayerID]bool
	failFor map[entity.PlayerID]error
}

func (c *recordingConnections) Send(playerID entity.PlayerID, msg dto.ClientMessage) error {
	if err := c.failFor[playerID]; err != nil {
		return err
	}
	c.sent = append(c.sent, sentMessage{player: playerID, msg: msg})
	return nil
}

func (c *recordingConnections) IsConnected(playerID entity.PlayerID) bool {
	return !c.offline[playerID]
}

func (c *recordingConnections) to(playerID entity.PlayerID) []dto.ClientMessage {
	var out []dto.ClientMessage
	for _, s := range c.sent {
		if s.player == playerID {
			out = append(out, s.msg)
		}
	}
	return out
}

type fakeProcessing struct {
	recomputed []entity.PlayerID
	triggers   []string
}

func (f *fakeProcessing) CanSee(fogOfWar *entity.VisibilityGrid, location entity.Coordinates) {}
func (f *fakeProcessing) CanSeeRadius(fogOfWar *entity.VisibilityGrid, center entity.Coordinates, radius int) error {
	return nil
}
func (f *fakeProcessing) MarkVisibleArea(g *entity.Game, player *entity.Player) error { return nil }
func (f *fakeProcessing) UpdateAndSendFogOfWar(ctx context.Context, g *entity.Game, player *entity.Player, triggeredFrom string) error {
	f.recomputed = append(f.recomputed, player.PlayerID)
	f.triggers = append(f.triggers, triggeredFrom)
	return nil
}

type nopLogger struct{}

func (nopLogger) WithContext(ctx context.Context) logx.Logger { return nopLogger{} }
func (nopLogger) Info(msg string, fields ...zap.Field)        {}
func (nopLogger) Error(msg string, fields ...zap.Field)       {}
func (nopLogger) Debug(msg string, fields ...zap.Field)       {}
func (nopLogger) Warn(msg string, fields ...zap.Field)        {}

// testEnv 编排层使用假的重算，断言只关心单个事件本身的消息。
type testEnv struct {
	rules   *fakeRules
	stats   *fakeUnitStats
	conns   *recordingConnections
	proc    *fakeProcessing
	midTurn *MidTurnChanges
	multi   *MultiChanges
}

func newTestEnv() *testEnv {
	rules := newFakeRules()
	stats := &fakeUnitStats{hitPoints: map[entity.UnitURN]int{}}
	conns := newRecordingConnections()
	proc := &fakeProcessing{}
	n := newNotifier(conns, nopLogger{})
	calc := NewCalculations()
	dup := NewDuplication()
	midTurn := NewMidTurnChanges(calc, dup, proc, n)
	return &testEnv{
		rules:   rules,
		stats:   stats,
		conns:   conns,
		proc:    proc,
		midTurn: midTurn,
		multi:   NewMultiChanges(calc, dup, proc, midTurn, rules, stats, n),
	}
}

func testCoords() entity.CoordinateSystem {
	return entity.CoordinateSystem{Width: 60, Height: 40, Depth: 2, WrapsLeftToRight: true}
}

func rememberSettings() entity.FogOfWarSettings {
	return entity.FogOfWarSettings{
		Units:                            entity.RememberAsLastSeen,
		TerrainAndNodeAuras:              entity.RememberAsLastSeen,
		CitiesSpellsAndCombatAreaEffects: entity.RememberAsLastSeen,
	}
}

// newTestGame 三个人类玩家：1、2、3，所有格子都铺上草地。
func newTestGame(settings entity.FogOfWarSettings) *entity.Game {
	g := entity.NewGame(1, testCoords(), settings)
	g.TrueMap.Map.Each(func(c entity.Coordinates, cell *entity.MapCell) {
		cell.Terrain = &entity.TerrainData{TileTypeID: "TT_GRASS"}
	})
	g.AddPlayer(1, "Merlin", true)
	g.AddPlayer(2, "Raven", true)
	g.AddPlayer(3, "Sharee", true)
	return g
}

func at(x, y, plane int) entity.Coordinates {
	return entity.Coordinates{X: x, Y: y, Plane: plane}
}

func placeCity(g *entity.Game, loc entity.Coordinates, owner entity.PlayerID) *entity.CityData {
	city := &entity.CityData{OwnerID: owner, RaceID: "RC_HIGH_MEN", CitySizeID: "CS_CITY", CityName: "Camelot", Population: 8000}
	g.TrueMap.Map.At(loc).City = city
	return city
}

func placeUnit(g *entity.Game, urn entity.UnitURN, owner entity.PlayerID, loc entity.Coordinates) *entity.Unit {
	u := &entity.Unit{UnitURN: urn, UnitID: "UN_SPEARMEN", OwnerID: owner, Location: loc, Status: entity.UnitStatusAlive}
	g.TrueMap.Units = append(g.TrueMap.Units, u)
	g.ReserveURNs(0, urn, 0, 0)
	return u
}
