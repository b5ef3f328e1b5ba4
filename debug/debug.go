// Package debug prints leveled diagnostic messages. Messages are advisory:
// nothing in the engine depends on whether they are shown.
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/fatih/color"
)

type Level int

const (
	Off Level = iota
	Low
	Middle
	High
)

// Category names the subsystem a message comes from.
type Category string

const (
	RelOp   Category = "REL_OP"
	FileMan Category = "FILE_MAN"
	MemMan  Category = "MEM_MAN"
)

var (
	mu sync.Mutex

	level  = Off
	logger = log.New(os.Stderr, "", log.LstdFlags)

	paint = map[Level]func(a ...interface{}) string{
		Low:    color.New(color.FgGreen).SprintFunc(),
		Middle: color.New(color.FgYellow).SprintFunc(),
		High:   color.New(color.FgCyan).SprintFunc(),
	}
)

func (l Level) String() string {
	switch l {
	case Off:
		return "off"
	case Low:
		return "low"
	case Middle:
		return "middle"
	case High:
		return "high"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel accepts off, low, middle, high or 0-3.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "off", "0", "":
		return Off, nil
	case "low", "1":
		return Low, nil
	case "middle", "2":
		return Middle, nil
	case "high", "3":
		return High, nil
	}
	return Off, fmt.Errorf("debug: unknown level %q", s)
}

func SetLevel(l Level) {
	mu.Lock()
	level = l
	mu.Unlock()
}

func SetOutput(w io.Writer) {
	mu.Lock()
	logger.SetOutput(w)
	mu.Unlock()
}

// Enabled reports whether messages at l are printed.
func Enabled(l Level) bool {
	mu.Lock()
	defer mu.Unlock()
	return l != Off && l <= level
}

// Printf prints a message when the current level is at least l.
func Printf(l Level, cat Category, format string, args ...interface{}) {
	if !Enabled(l) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	logger.Printf("%s %s", paint[l]("["+string(cat)+"]"), msg)
}
