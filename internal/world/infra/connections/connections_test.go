package connections

import (
	"Arcanus/internal/shared/session"
	"Arcanus/internal/shared/transport/ws"
	"Arcanus/internal/world/dto"
	"Arcanus/internal/world/service"
	"errors"
	"testing"
)

type pushed struct {
	name string
	data any
}

type fakeConn struct {
	pushes []pushed
	err    error
	done   chan struct{}
}

func (c *fakeConn) SetProperty(string, any) {}
func (c *fakeConn) GetProperty(string) any  { return nil }
func (c *fakeConn) Addr() string            { return "fake" }
func (c *fakeConn) Close()                  {}
func (c *fakeConn) Done() <-chan struct{}   { return c.done }

func (c *fakeConn) Push(name string, data any) error {
	if c.err != nil {
		return c.err
	}
	c.pushes = append(c.pushes, pushed{name: name, data: data})
	return nil
}

var _ ws.WSConn = (*fakeConn)(nil)

func TestSessionConnections_按会话和玩家路由(t *testing.T) {
	mgr := session.NewSessMgr()
	mine := &fakeConn{done: make(chan struct{})}
	other := &fakeConn{done: make(chan struct{})}
	mgr.Bind(session.Key{SessionID: 1, UID: 2}, "", mine)
	mgr.Bind(session.Key{SessionID: 9, UID: 2}, "", other)

	c := New(mgr, 1)
	if !c.IsConnected(2) || c.IsConnected(3) {
		t.Fatalf("期望只有玩家 2 在线")
	}

	msg := dto.KillUnitMessage{UnitURN: 5}
	if err := c.Send(2, msg); err != nil {
		t.Fatalf("期望发送成功，实际 err=%v", err)
	}
	if len(mine.pushes) != 1 || mine.pushes[0].name != msg.MessageName() {
		t.Fatalf("期望按消息名推送，实际 %+v", mine.pushes)
	}
	if len(other.pushes) != 0 {
		t.Fatalf("期望其他会话的连接收不到消息")
	}
}

func TestSessionConnections_离线与推送失败(t *testing.T) {
	mgr := session.NewSessMgr()
	c := New(mgr, 1)
	if err := c.Send(4, dto.KillUnitMessage{}); !errors.Is(err, service.ErrPlayerNotConnected) {
		t.Fatalf("期望 ErrPlayerNotConnected，实际 %v", err)
	}

	full := &fakeConn{done: make(chan struct{}), err: ws.ErrSendQueueFull}
	mgr.Bind(session.Key{SessionID: 1, UID: 4}, "", full)
	if err := c.Send(4, dto.KillUnitMessage{}); !errors.Is(err, ws.ErrSendQueueFull) {
		t.Fatalf("期望透传队列已满，实际 %v", err)
	}
}
