package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level controls which messages a Logger emits
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelLabels = map[Level]string{
	DebugLevel: "DBG",
	InfoLevel:  "INF",
	WarnLevel:  "WRN",
	ErrorLevel: "ERR",
}

var levelColors = map[Level]*color.Color{
	DebugLevel: color.New(color.FgWhite, color.Italic),
	InfoLevel:  color.New(color.FgCyan),
	WarnLevel:  color.New(color.FgYellow),
	ErrorLevel: color.New(color.FgHiRed, color.Bold),
}

var (
	mu     sync.Mutex
	out    io.Writer = os.Stderr
	minLvl           = InfoLevel
)

// SetOutput redirects all loggers to w (used by tests)
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetLevel sets the minimum level emitted by all loggers
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLvl = l
}

// Logger is a named, leveled logger. Names identify the subsystem
// ("server", "ytdlp", "scratch") in each line's prefix.
type Logger struct {
	name string
}

func New(name string) *Logger {
	return &Logger{name: name}
}

func (l *Logger) emit(lvl Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if lvl < minLvl {
		return
	}
	label := levelColors[lvl].Sprint(levelLabels[lvl])
	fmt.Fprintf(out, "%s %s [%s] %s\n",
		time.Now().Format("15:04:05"),
		label,
		l.name,
		fmt.Sprintf(format, args...),
	)
}

func (l *Logger) Debugf(format string, args ...any) { l.emit(DebugLevel, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.emit(InfoLevel, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.emit(WarnLevel, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.emit(ErrorLevel, format, args...) }
