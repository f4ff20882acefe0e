package hooks

import (
	"fmt"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
)

const modulePrefix = "klever-sub005/"

type contextHook struct{}

// NewContextHook adds a "file:line" field naming the caller of the log statement.
//   log.AddHook(hooks.NewContextHook())
func NewContextHook() log.Hook {
	return contextHook{}
}

func (hook contextHook) Levels() []log.Level {
	return log.AllLevels
}

func (hook contextHook) Fire(entry *log.Entry) error {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.Function, "sirupsen/logrus") && !strings.HasSuffix(frame.File, "context_hook.go") {
			file := frame.File
			if i := strings.LastIndex(file, modulePrefix); i >= 0 {
				file = file[i+len(modulePrefix):]
			}
			entry.Data["file:line"] = fmt.Sprintf("%s:%d", file, frame.Line)
			return nil
		}
		if !more {
			return nil
		}
	}
}
