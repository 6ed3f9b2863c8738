package ux

import (
	"fmt"
	"io"
	"os"
	"time"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

// Out receives progress messages. Stdout belongs to the script being run.
var Out io.Writer = os.Stderr

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// Compiling prints a timestamped line before cargo starts.
func Compiling(name, reason string) {
	fmt.Fprintf(Out, "%s[%s]%s  %s▸ Compiling %s%s %s(%s)%s\n",
		Dim, timestamp(), Reset, Cyan, name, Reset, Dim, reason, Reset)
}

// Compiled prints a build completion message.
func Compiled(name string, duration time.Duration) {
	fmt.Fprintf(Out, "%s[%s]%s  %s✓ Built %s (%s)%s\n",
		Dim, timestamp(), Reset, Green, name, formatDuration(duration), Reset)
}

// BuildFail prints a build failure message.
func BuildFail(name, errMsg string) {
	fmt.Fprintf(Out, "%s[%s]%s  %s✗ Building %s failed: %s%s\n",
		Dim, timestamp(), Reset, Red, name, errMsg, Reset)
}

// Swept prints how many stale cache entries were evicted.
func Swept(removed int) {
	if removed == 0 {
		return
	}
	noun := "entries"
	if removed == 1 {
		noun = "entry"
	}
	fmt.Fprintf(Out, "%s[%s]  – Evicted %d stale cache %s%s\n", Dim, timestamp(), removed, noun, Reset)
}

// Warn prints a non-fatal warning.
func Warn(format string, args ...any) {
	fmt.Fprintf(Out, "%swarning:%s %s\n", Yellow, Reset, fmt.Sprintf(format, args...))
}

// Error prints a fatal error.
func Error(err error) {
	fmt.Fprintf(Out, "%serror:%s %v\n", Red, Reset, err)
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if m == 0 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm %02ds", m, s)
}
