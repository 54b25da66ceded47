package logger

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nftlabs/mintflow/pkg/logger/slogx"
)

// Keys for log attributes.
const (
	TimeKey            = slog.TimeKey
	LevelKey           = slog.LevelKey
	MessageKey         = slog.MessageKey
	SourceKey          = slog.SourceKey
	ErrorKey           = slogx.ErrorKey
	ErrorVerboseKey    = "error_verbose"
	ErrorStackTraceKey = "error_stacktrace"
)

const (
	LevelCritical = slog.Level(12)
	LevelPanic    = slog.Level(14)
	LevelFatal    = slog.Level(16)
)

// namedLevels are the levels above slog.LevelError, highest first.
var namedLevels = []struct {
	level slog.Level
	name  string
}{
	{LevelFatal, "FATAL"},
	{LevelPanic, "PANIC"},
	{LevelCritical, "CRITICAL"},
}

func levelName(l slog.Level) (string, bool) {
	for _, n := range namedLevels {
		if l < n.level {
			continue
		}
		if d := l - n.level; d != 0 {
			return fmt.Sprintf("%s%+d", n.name, d), true
		}
		return n.name, true
	}
	return "", false
}

func levelAttrReplacer(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) != 0 || attr.Key != LevelKey {
		return attr
	}
	l, ok := attr.Value.Any().(slog.Level)
	if !ok {
		return attr
	}
	if name, ok := levelName(l); ok {
		return slog.String(attr.Key, name)
	}
	return attr
}

// ParseLevel converts a level name into an slog.Level. Besides the slog names it
// knows critical, panic and fatal. Unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	for _, n := range namedLevels {
		if strings.EqualFold(name, n.name) {
			return n.level
		}
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return l
}
