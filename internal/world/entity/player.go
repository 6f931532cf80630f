package entity

// Player 服务端保存的玩家信息：可见性网格 + 记忆副本。
// Human=false 的 AI 玩家只在服务端内存更新，没有连接，从不推送消息。
type Player struct {
	PlayerID PlayerID
	Name     string
	Human    bool

	FogOfWar *VisibilityGrid
	Memory   *FogOfWarMemory
}

func NewPlayer(id PlayerID, name string, human bool, cs CoordinateSystem) *Player {
	return &Player{
		PlayerID: id,
		Name:     name,
		Human:    human,
		FogOfWar: NewVisibilityGrid(cs),
		Memory:   NewFogOfWarMemory(cs),
	}
}
