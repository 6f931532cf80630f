package service

import (
	"context"
	"testing"

	"Arcanus/internal/world/dto"
	"Arcanus/internal/world/entity"
)

// towerMoveGame 玩家 1 的三个单位（URN 1、2、3）站在 (20,10,1)，(20,11) 是已攻占的巫师之塔。
func towerMoveGame() *entity.Game {
	g := newTestGame(rememberSettings())
	g.TrueMap.Map.At(at(20, 11, 0)).Terrain.MapFeatureID = entity.FeatureClearedTower
	g.TrueMap.Map.At(at(20, 11, 1)).Terrain.MapFeatureID = entity.FeatureClearedTower
	for urn := entity.UnitURN(1); urn <= 3; urn++ {
		placeUnit(g, urn, 1, at(20, 10, 1))
	}
	mover := g.FindPlayer(1)
	mover.FogOfWar.SetState(at(20, 10, 1), entity.CanSee)
	mover.FogOfWar.SetState(at(20, 11, 0), entity.CanSee)
	for _, u := range g.TrueMap.Units {
		NewDuplication().CopyUnit(u, mover.Memory, true)
	}
	return g
}

func TestMoveUnitStackOneCell_经塔移动到另一位面_对方能看到终点(t *testing.T) {
	env := newTestEnv()
	g := towerMoveGame()
	observer := g.FindPlayer(2)
	observer.FogOfWar.SetState(at(20, 11, 0), entity.CanSee)
	urns := []entity.UnitURN{1, 2, 3}

	if err := env.multi.MoveUnitStackOneCell(context.Background(), g, urns, at(20, 10, 1), at(20, 11, 0)); err != nil {
		t.Fatalf("err=%v", err)
	}

	for _, urn := range urns {
		u := observer.Memory.FindUnit(urn)
		if u == nil || u.Location != at(20, 11, 0) {
			t.Fatalf("期望玩家 2 的记忆获得单位 %d 且位于终点, got=%+v", urn, u)
		}
	}
	sent := env.conns.to(2)
	if len(sent) != 1 {
		t.Fatalf("期望玩家 2 只收到一条消息, got=%d", len(sent))
	}
	msg, ok := sent[0].(*dto.FogOfWarVisibleAreaChangedMessage)
	if !ok || len(msg.AddOrUpdateUnits) != 3 {
		t.Fatalf("期望以新增消息代替移动消息, got=%#v", sent[0])
	}

	moverMsgs := env.conns.to(1)
	if len(moverMsgs) != 1 {
		t.Fatalf("期望移动方收到一条移动消息, got=%d", len(moverMsgs))
	}
	if move := moverMsgs[0].(dto.MoveUnitStackOverlandMessage); move.FreeAfterMoving || len(move.UnitURNs) != 3 {
		t.Fatalf("期望普通移动消息, got=%+v", move)
	}
	if len(env.proc.recomputed) != 1 || env.proc.recomputed[0] != 1 {
		t.Fatalf("期望为移动方重算视野, got=%v", env.proc.recomputed)
	}
}

func TestMoveUnitStackOneCell_经塔移动到另一位面_对方两端都看不到(t *testing.T) {
	env := newTestEnv()
	g := towerMoveGame()
	observer := g.FindPlayer(2)

	if err := env.multi.MoveUnitStackOneCell(context.Background(), g, []entity.UnitURN{1, 2, 3}, at(20, 10, 1), at(20, 11, 0)); err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(observer.Memory.Units) != 0 {
		t.Fatalf("期望玩家 2 的记忆不变, got=%d", len(observer.Memory.Units))
	}
	if len(env.conns.to(2)) != 0 {
		t.Fatalf("期望玩家 2 不收消息")
	}
	for _, u := range g.TrueMap.Units {
		if u.Location != at(20, 11, 0) {
			t.Fatalf("期望真实状态中单位已移动, got=%v", u.Location)
		}
	}
}

func TestMoveUnitStackOneCell_离开视野后释放记忆(t *testing.T) {
	env := newTestEnv()
	g := towerMoveGame()
	observer := g.FindPlayer(3)
	observer.FogOfWar.SetState(at(20, 10, 1), entity.CanSee)
	for _, u := range g.TrueMap.Units {
		NewDuplication().CopyUnit(u, observer.Memory, false)
	}
	spell := &entity.MaintainedSpell{SpellURN: 1, SpellID: "SP_FLIGHT", CastingPlayerID: 1, UnitURN: 2}
	g.TrueMap.Spells = append(g.TrueMap.Spells, spell)
	NewDuplication().CopyMaintainedSpell(spell, observer.Memory)

	if err := env.multi.MoveUnitStackOneCell(context.Background(), g, []entity.UnitURN{1, 2, 3}, at(20, 10, 1), at(20, 11, 0)); err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(observer.Memory.Units) != 0 || len(observer.Memory.Spells) != 0 {
		t.Fatalf("期望单位及其法术从记忆中释放")
	}
	sent := env.conns.to(3)
	if len(sent) != 1 || !sent[0].(dto.MoveUnitStackOverlandMessage).FreeAfterMoving {
		t.Fatalf("期望收到一条“移动后释放”消息, got=%+v", sent)
	}
}

func TestMoveUnitStackOneCell_两端可见时更新位置(t *testing.T) {
	env := newTestEnv()
	g := newTestGame(rememberSettings())
	u := placeUnit(g, 1, 1, at(5, 5, 0))
	u.DoubleOverlandMovesLeft = 4
	observer := g.FindPlayer(2)
	observer.FogOfWar.SetState(at(5, 5, 0), entity.CanSee)
	observer.FogOfWar.SetState(at(6, 5, 0), entity.CanSee)
	NewDuplication().CopyUnit(u, observer.Memory, false)

	if err := env.multi.MoveUnitStackOneCell(context.Background(), g, []entity.UnitURN{1}, at(5, 5, 0), at(6, 5, 0)); err != nil {
		t.Fatalf("err=%v", err)
	}
	mem := observer.Memory.FindUnit(1)
	if mem.Location != at(6, 5, 0) || mem.DoubleOverlandMovesLeft != 0 {
		t.Fatalf("期望记忆中位置更新且不含行动点, got=%+v", mem)
	}
	if sent := env.conns.to(2); len(sent) != 1 || sent[0].(dto.MoveUnitStackOverlandMessage).FreeAfterMoving {
		t.Fatalf("期望一条普通移动消息, got=%+v", sent)
	}
}

func TestMoveUnitStackOneCell_进入地图特征时清除(t *testing.T) {
	env := newTestEnv()
	env.rules.monsterFeatures["MF_LAIR"] = true
	g := newTestGame(rememberSettings())
	placeUnit(g, 1, 1, at(5, 5, 0))
	g.TrueMap.Map.At(at(6, 5, 0)).Terrain.MapFeatureID = "MF_LAIR"
	g.TrueMap.Map.At(at(30, 9, 1)).Terrain.MapFeatureID = entity.FeatureUnclearedTower
	g.TrueMap.Map.At(at(30, 9, 0)).Terrain.MapFeatureID = entity.FeatureUnclearedTower
	placeUnit(g, 2, 1, at(30, 8, 1))
	g.FindPlayer(2).FogOfWar.SetState(at(30, 9, 0), entity.CanSee)

	if err := env.multi.MoveUnitStackOneCell(context.Background(), g, []entity.UnitURN{1}, at(5, 5, 0), at(6, 5, 0)); err != nil {
		t.Fatalf("err=%v", err)
	}
	if g.TrueMap.Map.At(at(6, 5, 0)).Terrain.MapFeatureID != "" {
		t.Fatalf("期望怪物巢穴被清除")
	}

	if err := env.multi.MoveUnitStackOneCell(context.Background(), g, []entity.UnitURN{2}, at(30, 8, 1), at(30, 9, 1)); err != nil {
		t.Fatalf("err=%v", err)
	}
	for plane := 0; plane < 2; plane++ {
		if !g.TrueMap.Map.IsClearedTower(at(30, 9, plane)) || g.TrueMap.Map.At(at(30, 9, plane)).Terrain.MapFeatureID != entity.FeatureClearedTower {
			t.Fatalf("期望两个位面的塔都被攻占")
		}
	}
	if mem := g.FindPlayer(2).Memory.Map.At(at(30, 9, 0)).Terrain; mem == nil || mem.MapFeatureID != entity.FeatureClearedTower {
		t.Fatalf("期望能看到塔的玩家记忆被更新, got=%+v", mem)
	}
}

func TestHealUnitsAndGainExperience_按最大生命值百分比向上取整(t *testing.T) {
	env := newTestEnv()
	env.rules.healEligible = true
	env.rules.expEligible = true
	g := newTestGame(rememberSettings())
	big := placeUnit(g, 1, 1, at(5, 5, 0))
	big.Damage = []entity.UnitDamage{{DamageType: entity.DamageHealable, Amount: 5}}
	big.SetSkill(entity.SkillExperience, 5)
	small := placeUnit(g, 2, 1, at(6, 5, 0))
	small.Damage = []entity.UnitDamage{
		{DamageType: entity.DamagePermanent, Amount: 4},
		{DamageType: entity.DamageHealable, Amount: 3},
	}
	env.stats.hitPoints[1] = 24
	env.stats.hitPoints[2] = 16
	g.FindPlayer(2).FogOfWar.SetState(at(5, 5, 0), entity.CanSee)

	if err := env.multi.HealUnitsAndGainExperience(context.Background(), g, 0); err != nil {
		t.Fatalf("err=%v", err)
	}
	if got := big.TotalDamage(entity.DamageHealable); got != 3 {
		t.Fatalf("期望 24 点生命治疗 2 点, 剩余=%d", got)
	}
	if got := small.TotalDamage(entity.DamageHealable); got != 2 {
		t.Fatalf("期望 16 点生命治疗 1 点, 剩余=%d", got)
	}
	if got := small.TotalDamage(entity.DamagePermanent); got != 4 {
		t.Fatalf("期望永久伤害不受影响, got=%d", got)
	}
	if v, _ := big.Skill(entity.SkillExperience); v != 6 {
		t.Fatalf("期望经验 +1, got=%d", v)
	}
	if small.HasSkill(entity.SkillExperience) {
		t.Fatalf("期望没有经验技能的单位不获得经验")
	}
	if sent := env.conns.to(2); len(sent) != 1 {
		t.Fatalf("期望能看到单位的玩家收到一条更新, got=%d", len(sent))
	}
}

func TestHealAmount(t *testing.T) {
	cases := map[int]int{24: 2, 16: 1, 20: 1, 21: 2, 0: 0}
	for hp, want := range cases {
		if got := HealAmount(hp); got != want {
			t.Fatalf("hp=%d 期望 %d, got=%d", hp, want, got)
		}
	}
}

func TestGrantExperienceToUnitsInCombat_只奖励胜方参战单位(t *testing.T) {
	env := newTestEnv()
	env.rules.expEligible = true
	g := newTestGame(rememberSettings())
	combat := at(7, 7, 0)
	winner := placeUnit(g, 1, 1, at(6, 7, 0))
	winner.CombatLocation, winner.CombatSide = &combat, entity.CombatSideAttacker
	winner.SetSkill(entity.SkillExperience, 0)
	loser := placeUnit(g, 2, 2, combat)
	loser.CombatLocation, loser.CombatSide = &combat, entity.CombatSideDefender
	loser.SetSkill(entity.SkillExperience, 0)
	idle := placeUnit(g, 3, 1, at(6, 7, 0))
	idle.SetSkill(entity.SkillExperience, 0)

	if err := env.multi.GrantExperienceToUnitsInCombat(context.Background(), g, combat, entity.CombatSideAttacker); err != nil {
		t.Fatalf("err=%v", err)
	}
	for _, tc := range []struct {
		unit *entity.Unit
		want int
	}{{winner, 1}, {loser, 0}, {idle, 0}} {
		if v, _ := tc.unit.Skill(entity.SkillExperience); v != tc.want {
			t.Fatalf("单位 %d 期望经验 %d, got=%d", tc.unit.UnitURN, tc.want, v)
		}
	}
}

func TestResetUnitOverlandMovement_写入所有者记忆且不推送(t *testing.T) {
	env := newTestEnv()
	env.stats.speed = 3
	g := newTestGame(rememberSettings())
	mine := placeUnit(g, 1, 1, at(5, 5, 0))
	NewDuplication().CopyUnit(mine, g.FindPlayer(1).Memory, true)
	theirs := placeUnit(g, 2, 2, at(9, 9, 0))

	if err := env.multi.ResetUnitOverlandMovement(context.Background(), g, 1); err != nil {
		t.Fatalf("err=%v", err)
	}
	if mine.DoubleOverlandMovesLeft != 6 || g.FindPlayer(1).Memory.FindUnit(1).DoubleOverlandMovesLeft != 6 {
		t.Fatalf("期望真实状态和所有者记忆都重置为 6")
	}
	if theirs.DoubleOverlandMovesLeft != 0 {
		t.Fatalf("期望只处理指定玩家的单位")
	}
	if len(env.conns.sent) != 0 {
		t.Fatalf("期望不推送消息, got=%d", len(env.conns.sent))
	}
}

func TestSwitchOffSpellsCastInCombat_只关闭战斗中施放的法术(t *testing.T) {
	env := newTestEnv()
	g := newTestGame(rememberSettings())
	combat := at(7, 7, 0)
	elsewhere := at(30, 30, 0)
	defender := placeUnit(g, 1, 2, combat)
	defender.CombatLocation = &combat
	placeUnit(g, 2, 1, elsewhere)
	g.TrueMap.Spells = []*entity.MaintainedSpell{
		{SpellURN: 1, SpellID: "SP_HASTE", CastingPlayerID: 2, UnitURN: 1, CastInCombat: true},
		{SpellURN: 2, SpellID: "SP_WALL_OF_FIRE", CastingPlayerID: 2, CityLocation: &combat, CastInCombat: true},
		{SpellURN: 3, SpellID: "SP_HEAVENLY_LIGHT", CastingPlayerID: 2, CityLocation: &combat},
		{SpellURN: 4, SpellID: "SP_HASTE", CastingPlayerID: 1, UnitURN: 2, CastInCombat: true},
	}
	updates := NewWorldUpdates(env.midTurn, nopLogger{})

	if err := env.multi.SwitchOffSpellsCastInCombat(context.Background(), g, combat, updates); err != nil {
		t.Fatalf("err=%v", err)
	}
	var remaining []entity.SpellURN
	for _, s := range g.TrueMap.Spells {
		remaining = append(remaining, s.SpellURN)
	}
	if len(remaining) != 2 || remaining[0] != 3 || remaining[1] != 4 {
		t.Fatalf("期望保留 3、4, got=%v", remaining)
	}
	if updates.Pending() != 0 {
		t.Fatalf("期望队列已清空")
	}
}

func TestSwitchOffSpellsInLocation_可只关闭指定玩家的法术(t *testing.T) {
	env := newTestEnv()
	g := newTestGame(rememberSettings())
	loc := at(7, 7, 0)
	g.TrueMap.Spells = []*entity.MaintainedSpell{
		{SpellURN: 1, SpellID: "SP_CURSE", CastingPlayerID: 2, CityLocation: &loc},
		{SpellURN: 2, SpellID: "SP_WALL_OF_STONE", CastingPlayerID: 1, CityLocation: &loc},
		{SpellURN: 3, SpellID: "SP_FAMINE", CastingPlayerID: 2, CityLocation: &loc},
	}

	if err := env.multi.SwitchOffSpellsInLocation(context.Background(), g, loc, 2); err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(g.TrueMap.Spells) != 1 || g.TrueMap.Spells[0].SpellURN != 2 {
		t.Fatalf("期望只保留玩家 1 的法术, got=%+v", g.TrueMap.Spells)
	}
}

func TestRazeCity_清空城市建筑与法术(t *testing.T) {
	env := newTestEnv()
	g := newTestGame(rememberSettings())
	loc := at(10, 10, 0)
	placeCity(g, loc, 1)
	for _, p := range g.Players {
		p.FogOfWar.SetState(loc, entity.CanSee)
	}
	if _, err := env.midTurn.AddBuildings(context.Background(), g, loc, "BL_BARRACKS", "BL_SMITHY"); err != nil {
		t.Fatalf("err=%v", err)
	}
	if _, err := env.midTurn.AddMaintainedSpell(context.Background(), g, entity.MaintainedSpell{SpellID: "SP_CURSE", CastingPlayerID: 2, CityLocation: &loc}); err != nil {
		t.Fatalf("err=%v", err)
	}
	if err := env.midTurn.UpdatePlayerMemoryOfCity(context.Background(), g, loc); err != nil {
		t.Fatalf("err=%v", err)
	}
	env.proc.recomputed, env.proc.triggers = nil, nil

	if err := env.multi.RazeCity(context.Background(), g, loc); err != nil {
		t.Fatalf("err=%v", err)
	}
	if g.TrueMap.Map.At(loc).City != nil || len(g.TrueMap.Buildings) != 0 || len(g.TrueMap.Spells) != 0 {
		t.Fatalf("期望真实状态中城市、建筑、法术都被清除")
	}
	mem := g.FindPlayer(2).Memory
	if mem.Map.At(loc).City != nil || len(mem.Buildings) != 0 || len(mem.Spells) != 0 {
		t.Fatalf("期望能看到的玩家记忆同步清除")
	}
	if last := env.proc.triggers[len(env.proc.triggers)-1]; last != "razeCity" || env.proc.recomputed[len(env.proc.recomputed)-1] != 1 {
		t.Fatalf("期望最后为原城主重算视野, got=%v %v", env.proc.recomputed, env.proc.triggers)
	}
}

func TestWorldUpdates_去重并跳过已不存在的法术(t *testing.T) {
	env := newTestEnv()
	g := newTestGame(rememberSettings())
	g.TrueMap.Spells = []*entity.MaintainedSpell{
		{SpellURN: 1, SpellID: "SP_ETERNAL_NIGHT", CastingPlayerID: 1},
		{SpellURN: 2, SpellID: "SP_EVIL_OMENS", CastingPlayerID: 1},
	}
	updates := NewWorldUpdates(env.midTurn, nopLogger{})

	if !updates.SwitchOffSpell(2) || updates.SwitchOffSpell(2) || !updates.SwitchOffSpell(9) || !updates.SwitchOffSpell(1) {
		t.Fatalf("期望同一 URN 只入队一次")
	}
	if err := updates.Process(context.Background(), g); err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(g.TrueMap.Spells) != 0 || updates.Pending() != 0 {
		t.Fatalf("期望法术全部关闭且队列清空")
	}

	if len(env.conns.sent) != 0 {
		t.Fatalf("期望玩家记忆中没有这些法术时不发消息, got=%d", len(env.conns.sent))
	}
}
