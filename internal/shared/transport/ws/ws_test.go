package ws

import (
	"Arcanus/internal/shared/transport"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestRouter_未知路由返回参数错误(t *testing.T) {
	r := NewRouter(nil)
	r.Group("fow").Handle("snapshot", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		resp.Body.Code = transport.OK
	})

	for _, name := range []string{"fow", "fow.unknown", "other.snapshot", ".snapshot"} {
		resp := &WsMsgResp{Body: &RespBody{}}
		r.Dispatch(&WsMsgReq{Body: &ReqBody{Name: name}}, resp)
		if resp.Body.Code != transport.InvalidParam {
			t.Fatalf("期望 %q 返回 InvalidParam，实际 code=%d", name, resp.Body.Code)
		}
	}
}

func TestRouter_handler漏设业务码时为系统错误(t *testing.T) {
	r := NewRouter(nil)
	r.Group("fow").Handle("noop", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {})

	resp := &WsMsgResp{Body: &RespBody{}}
	r.Dispatch(&WsMsgReq{Body: &ReqBody{Name: "fow.noop"}}, resp)
	if resp.Body.Code != transport.SystemError {
		t.Fatalf("期望 SystemError，实际 code=%d", resp.Body.Code)
	}
}

func TestBindJSON_解析消息体(t *testing.T) {
	var dst struct {
		SessionID int64 `json:"session_id"`
	}
	req := &WsMsgReq{Body: &ReqBody{Msg: map[string]any{"session_id": 7}}}
	if err := BindJSON(req, &dst); err != nil {
		t.Fatalf("期望解析成功，实际 err=%v", err)
	}
	if dst.SessionID != 7 {
		t.Fatalf("期望 session_id=7，实际 %d", dst.SessionID)
	}
	if err := BindJSON(&WsMsgReq{}, &dst); !errors.Is(err, ErrNilRequestBody) {
		t.Fatalf("期望 ErrNilRequestBody，实际 %v", err)
	}
}

func TestWsServer_发送队列满时不阻塞(t *testing.T) {
	s := NewWsServer(nil, 1, nil)
	if err := s.Push("a", 1); err != nil {
		t.Fatalf("期望首条入队成功，实际 err=%v", err)
	}
	if err := s.Push("b", 2); !errors.Is(err, ErrSendQueueFull) {
		t.Fatalf("期望 ErrSendQueueFull，实际 %v", err)
	}
}

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, string) {
	t.Helper()
	r := NewRouter(nil)
	r.Group("echo").Handle("uid", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		conn, ok := ConnFrom(ctx)
		if !ok {
			resp.Body.Code = transport.SystemError
			return
		}
		resp.Body.Code = transport.OK
		resp.Body.Msg = conn.GetProperty(ConnKeyUID)
	})
	srv := httptest.NewServer(NewServer(r, nil, opts...))
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func readResp(t *testing.T, c *websocket.Conn) RespBody {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(3 * time.Second))
	var body RespBody
	if err := c.ReadJSON(&body); err != nil {
		t.Fatalf("读取响应失败: %v", err)
	}
	return body
}

func TestServer_鉴权失败拒绝升级(t *testing.T) {
	_, url := newTestServer(t, WithAuthenticator(func(r *http.Request) (int, error) {
		return 0, errors.New("bad token")
	}))

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatalf("期望握手失败")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际 %+v", resp)
	}
}

func TestServer_心跳路由与上线推送(t *testing.T) {
	opened := make(chan WSConn, 1)
	_, url := newTestServer(t,
		WithAuthenticator(func(r *http.Request) (int, error) { return 42, nil }),
		WithOnOpen(func(r *http.Request, uid int, conn WSConn) {
			_ = conn.Push("welcome", uid)
			opened <- conn
		}),
	)

	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("期望握手成功，实际 err=%v", err)
	}
	defer c.Close()

	welcome := readResp(t, c)
	if welcome.Name != "welcome" || welcome.Msg != float64(42) {
		t.Fatalf("期望上线推送 uid=42，实际 %+v", welcome)
	}

	if err := c.WriteJSON(ReqBody{Seq: 1, Name: HeartbeatMsg, Msg: map[string]any{"ctime": 100}}); err != nil {
		t.Fatalf("写心跳失败: %v", err)
	}
	hb := readResp(t, c)
	if hb.Seq != 1 || hb.Name != HeartbeatMsg {
		t.Fatalf("期望心跳回包 seq=1，实际 %+v", hb)
	}
	m, _ := hb.Msg.(map[string]any)
	if m["ctime"] != float64(100) || m["stime"] == float64(0) {
		t.Fatalf("期望心跳回包带客户端与服务端时间，实际 %+v", m)
	}

	if err := c.WriteJSON(ReqBody{Seq: 2, Name: "echo.uid"}); err != nil {
		t.Fatalf("写请求失败: %v", err)
	}
	echo := readResp(t, c)
	if echo.Seq != 2 || echo.Code != transport.OK || echo.Msg != float64(42) {
		t.Fatalf("期望 echo.uid 返回 42，实际 %+v", echo)
	}

	conn := <-opened
	_ = c.Close()
	select {
	case <-conn.Done():
	case <-time.After(3 * time.Second):
		t.Fatalf("期望客户端断开后服务端连接关闭")
	}
	if err := conn.Push("late", nil); !errors.Is(err, ErrConnClosed) {
		t.Fatalf("期望关闭后推送返回 ErrConnClosed，实际 %v", err)
	}
}
