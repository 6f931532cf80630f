package session

import (
	"sync"
	"testing"
	"time"
)

type fakeConn struct {
	mu       sync.Mutex
	pushed   []string
	done     chan struct{}
	closeOne sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{})}
}

func (c *fakeConn) SetProperty(string, any) {}
func (c *fakeConn) GetProperty(string) any  { return nil }
func (c *fakeConn) Addr() string            { return "fake" }
func (c *fakeConn) Done() <-chan struct{}   { return c.done }

func (c *fakeConn) Push(name string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushed = append(c.pushed, name)
	return nil
}

func (c *fakeConn) Close() {
	c.closeOne.Do(func() { close(c.done) })
}

func (c *fakeConn) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.pushed...)
}

func TestSessMgr_重复绑定踢掉旧连接(t *testing.T) {
	m := NewSessMgr()
	key := Key{SessionID: 1, UID: 2}
	oldConn, newConn := newFakeConn(), newFakeConn()

	m.Bind(key, "t1", oldConn)
	m.Bind(key, "t2", newConn)

	got, ok := m.GetConn(key)
	if !ok || got != newConn {
		t.Fatalf("期望新连接生效")
	}
	if names := oldConn.names(); len(names) != 1 || names[0] != KickedMsg {
		t.Fatalf("期望旧连接收到 %s，实际 %v", KickedMsg, names)
	}
	select {
	case <-oldConn.Done():
	default:
		t.Fatalf("期望旧连接被关闭")
	}
	if _, ok := m.GetKey(oldConn); ok {
		t.Fatalf("期望旧连接不再映射到玩家")
	}
}

func TestSessMgr_同一uid在不同会话互不影响(t *testing.T) {
	m := NewSessMgr()
	a, b := newFakeConn(), newFakeConn()
	m.Bind(Key{SessionID: 1, UID: 2}, "", a)
	m.Bind(Key{SessionID: 2, UID: 2}, "", b)

	if c, _ := m.GetConn(Key{SessionID: 1, UID: 2}); c != a {
		t.Fatalf("期望会话 1 仍是连接 a")
	}
	if len(a.names()) != 0 {
		t.Fatalf("期望连接 a 未被踢")
	}
}

func TestSessMgr_连接关闭后自动解绑(t *testing.T) {
	m := NewSessMgr()
	key := Key{SessionID: 3, UID: 1}
	conn := newFakeConn()
	m.Bind(key, "", conn)
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := m.GetConn(key); !ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("期望连接关闭后解绑")
}

func TestSessMgr_按身份解绑(t *testing.T) {
	m := NewSessMgr()
	key := Key{SessionID: 4, UID: 1}
	conn := newFakeConn()
	m.Bind(key, "", conn)
	m.UnbindKey(key)

	if _, ok := m.GetConn(key); ok {
		t.Fatalf("期望解绑后查不到连接")
	}
	if _, ok := m.GetKey(conn); ok {
		t.Fatalf("期望解绑后连接不再映射")
	}
}
