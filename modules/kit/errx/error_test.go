package errx

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Is_只按code比较语义(t *testing.T) {
	e1 := NewBiz("FOW_RECORD_NOT_FOUND", "building").WithData("urn", 3).WithCause(errors.New("cause1"))
	e2 := NewBiz("FOW_RECORD_NOT_FOUND", "unit").WithData("urn", 9)
	if !errors.Is(e1, e2) {
		t.Fatalf("期望 errors.Is(e1, e2)==true（只按 code 判断语义），e1=%v e2=%v", e1, e2)
	}
}

func TestError_业务错误不捕获栈_但保留cause链(t *testing.T) {
	cause := errors.New("conn closed")
	err := NewBiz("FOW_PLAYER_NOT_CONNECTED", "玩家未连接").WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("期望业务错误不捕获栈，got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望 cause 链不丢，err=%v", err)
	}
}

func TestError_系统错误捕获一次栈_且不重复捕获(t *testing.T) {
	cause := errors.New("outbox full")
	sys := NewSys("FOW_SEND_FAILED", "消息发送失败").WithCause(cause)
	if got := sys.Stack(); len(got) == 0 {
		t.Fatalf("期望系统错误捕获栈（发生/转换处），got=%v", got)
	}

	sys2 := NewSys("SESSION_ACTOR_FAILED", "会话处理失败").WithCause(sys)
	if got := sys2.Stack(); got != nil {
		t.Fatalf("期望上层系统错误不重复捕获栈（cause 链里已有栈），got=%v", got)
	}
}

func TestError_Data_防止外部map污染(t *testing.T) {
	m := map[string]any{"urn": 1}
	err := NewBiz("X", "").WithDataMap(m)
	m["urn"] = 2
	if got := err.Data()["urn"]; got != 1 {
		t.Fatalf("期望构造时复制 data，got=%v", got)
	}
}

func TestCodeOf_沿fmt包装链查找(t *testing.T) {
	base := NewBiz("FOW_COORDINATES_OUT_OF_RANGE", "坐标越界")
	wrapped := fmt.Errorf("mark visible area: %w", base)
	if got := CodeOf(wrapped); got != "FOW_COORDINATES_OUT_OF_RANGE" {
		t.Fatalf("期望找到包装链里的错误码，got=%q", got)
	}
	if IsSys(wrapped) {
		t.Fatalf("期望业务错误 IsSys=false")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("期望普通错误返回空错误码")
	}
}

func TestError_DataValue与Reason(t *testing.T) {
	err := NewBiz("FOW_RECORD_NOT_FOUND", "记录不存在").WithData("urn", 7).WithReason(testReason("stale"))
	if v, ok := err.DataValue("urn"); !ok || v != 7 {
		t.Fatalf("期望 urn=7, got=%v ok=%v", v, ok)
	}
	if err.Reason() != "stale" {
		t.Fatalf("期望 reason=stale, got=%q", err.Reason())
	}
	if _, ok := ErrTimeout.DataValue("urn"); ok {
		t.Fatalf("期望哨兵错误不被 WithData 污染")
	}
}

type testReason string

func (r testReason) ReasonCode() string { return string(r) }
