package session

import (
	"Arcanus/internal/shared/transport/ws"
	"fmt"
	"sync"
)

// Key 一个玩家在某局游戏里的身份，同一 uid 可同时在多局里各挂一条连接。
type Key struct {
	SessionID int64
	UID       int
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d", k.SessionID, k.UID)
}

// KickedMsg 同一身份重复登录时推给旧连接。
const KickedMsg = "session.kicked"

type Manager interface {
	Bind(key Key, token string, conn ws.WSConn)
	UnbindConn(conn ws.WSConn)
	UnbindKey(key Key)
	GetConn(key Key) (ws.WSConn, bool)
	GetKey(conn ws.WSConn) (Key, bool)
}

type SessMgr struct {
	sync.RWMutex
	key2token map[Key]string
	key2conn  map[Key]ws.WSConn
	conn2key  map[ws.WSConn]Key
	watched   map[ws.WSConn]struct{}
}

func NewSessMgr() *SessMgr {
	return &SessMgr{
		key2token: make(map[Key]string),
		key2conn:  make(map[Key]ws.WSConn),
		conn2key:  make(map[ws.WSConn]Key),
		watched:   make(map[ws.WSConn]struct{}),
	}
}

func (s *SessMgr) Bind(key Key, token string, conn ws.WSConn) {
	if conn == nil {
		return
	}
	s.Lock()
	defer s.Unlock()

	// 为每条连接只启动一次 watcher：连接关闭后自动解绑
	if _, ok := s.watched[conn]; !ok {
		s.watched[conn] = struct{}{}
		go s.watchConnDone(conn)
	}

	oldConn := s.key2conn[key]
	// 踢掉原来的那个
	if oldConn != nil && oldConn != conn {
		_ = oldConn.Push(KickedMsg, nil)
		oldConn.Close()
		delete(s.conn2key, oldConn)
	}
	s.key2conn[key] = conn
	s.conn2key[conn] = key
	s.key2token[key] = token
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	delete(s.watched, conn)
	key, ok := s.conn2key[conn]
	if !ok {
		return
	}
	delete(s.conn2key, conn)
	if s.key2conn[key] == conn {
		delete(s.key2conn, key)
		delete(s.key2token, key)
	}
}

func (s *SessMgr) UnbindKey(key Key) {
	s.Lock()
	defer s.Unlock()
	conn, ok := s.key2conn[key]
	if ok {
		delete(s.watched, conn)
		delete(s.conn2key, conn)
	}
	delete(s.key2conn, key)
	delete(s.key2token, key)
}

func (s *SessMgr) GetConn(key Key) (ws.WSConn, bool) {
	s.RLock()
	defer s.RUnlock()
	conn, ok := s.key2conn[key]
	return conn, ok
}

func (s *SessMgr) GetKey(conn ws.WSConn) (Key, bool) {
	s.RLock()
	defer s.RUnlock()
	key, ok := s.conn2key[conn]
	return key, ok
}
