package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// progressWidth is the number of cells between the brackets.
const progressWidth = 10

// RenderProgress formats done/total as "[=====     ] 5/10 (50%)".
// With colour, partial progress is cyan and completion green.
func RenderProgress(done, total int, colored bool) string {
	pct := Percent(done, total)
	filled := pct * progressWidth / 100

	line := fmt.Sprintf("[%s%s] %d/%d (%d%%)",
		strings.Repeat("=", filled), strings.Repeat(" ", progressWidth-filled), done, total, pct)
	if !colored {
		return line
	}

	c := color.New(color.FgCyan)
	if pct == 100 {
		c = color.New(color.FgGreen)
	}
	c.EnableColor()
	return c.Sprint(line)
}

// Percent returns done as a share of total, clamped to 0..100.
// A non-positive total is 0%.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	pct := done * 100 / total
	switch {
	case pct > 100:
		return 100
	case pct < 0:
		return 0
	}
	return pct
}
