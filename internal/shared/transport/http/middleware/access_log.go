package middleware

import (
	"Arcanus/internal/shared/transport"
	"Arcanus/modules/kit/logx"
	"Arcanus/modules/kit/tracex"
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	TraceHeader  = "X-Trace-Id"
	sessionParam = "sid"
)

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	_, _ = w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	_, _ = w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 每个请求一条访问日志。业务码取响应体的 code 字段，
// 路径带 :sid 时会话 id 进入 context，调用方的 X-Trace-Id 会被沿用并回写到响应头。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		action := c.Request.Method + " " + route

		ctx := transport.NewContextWithParent(c.Request.Context(), transport.SpanHTTP, action, c.GetHeader(TraceHeader))
		if sid, err := strconv.ParseInt(c.Param(sessionParam), 10, 64); err == nil && sid > 0 {
			ctx = transport.WithSession(ctx, sid)
		}
		c.Request = c.Request.WithContext(ctx)
		if tid, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(TraceHeader, tid)
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		switch code, ok := parseBizCode(bw.body.Bytes()); {
		case ok:
			transport.SetBizCode(ctx, transport.BizCode(code))
		case c.Writer.Status() >= http.StatusBadRequest:
			transport.SetBizCode(ctx, transport.SystemError)
		default:
			transport.SetBizCode(ctx, transport.OK)
		}
		transport.WriteAccessLog(ctx, log)
	}
}

func parseBizCode(body []byte) (int, bool) {
	if len(body) == 0 {
		return 0, false
	}
	var payload struct {
		Code *int `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == nil {
		return 0, false
	}
	return *payload.Code, true
}
