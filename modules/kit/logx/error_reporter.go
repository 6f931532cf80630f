package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

type codeTextProvider interface{ CodeText() string }
type msgProvider interface{ Msg() string }
type dataProvider interface{ Data() map[string]any }
type stackProvider interface{ Stack() []uintptr }
type reasonProvider interface{ Reason() string }

const (
	maxCauseDepth  = 20
	maxStackFrames = 32
)

// ErrorLog 是 errx.Error 拆出来的可打印字段。
type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error()}

	var cp codeTextProvider
	if errors.As(err, &cp) {
		out.Code = cp.CodeText()
	}
	var mp msgProvider
	if errors.As(err, &mp) {
		out.Msg = mp.Msg()
	}
	var dp dataProvider
	if errors.As(err, &dp) {
		out.Data = dp.Data()
	}
	var rp reasonProvider
	if errors.As(err, &rp) {
		out.Reason = rp.Reason()
	}
	var sp stackProvider
	if errors.As(err, &sp) {
		out.Origin, out.Stack = formatStack(sp.Stack(), maxStackFrames)
	}
	out.CauseChain = buildCauseChain(err, maxCauseDepth)
	return out
}

func buildCauseChain(err error, maxDepth int) []string {
	var out []string
	for cur := errors.Unwrap(err); cur != nil && len(out) < maxDepth; cur = errors.Unwrap(cur) {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
	}
	return out
}

// formatStack 第一帧作为 origin，runtime 内部帧不打印。
func formatStack(pcs []uintptr, maxFrames int) (origin string, stack string) {
	if len(pcs) == 0 || maxFrames <= 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, maxFrames)
	for len(lines) < maxFrames {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" {
			break
		}
		if !strings.HasPrefix(f.Function, "runtime.") {
			line := fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line)
			if origin == "" {
				origin = line
			}
			lines = append(lines, line)
		}
		if !more {
			break
		}
	}
	return origin, strings.Join(lines, "\n")
}
