package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/bamsammich/treecopy/internal/config"
)

// Theme holds the colours used for per-entry output lines.
type Theme struct {
	File      *color.Color
	Directory *color.Color
	Symlink   *color.Color
	Error     *color.Color
}

var colorNames = map[string]color.Attribute{
	"black":     color.FgBlack,
	"red":       color.FgRed,
	"green":     color.FgGreen,
	"yellow":    color.FgYellow,
	"blue":      color.FgBlue,
	"magenta":   color.FgMagenta,
	"cyan":      color.FgCyan,
	"white":     color.FgWhite,
	"hiblack":   color.FgHiBlack,
	"hired":     color.FgHiRed,
	"higreen":   color.FgHiGreen,
	"hiyellow":  color.FgHiYellow,
	"hiblue":    color.FgHiBlue,
	"himagenta": color.FgHiMagenta,
	"hicyan":    color.FgHiCyan,
	"hiwhite":   color.FgHiWhite,
}

// DefaultTheme returns the built-in colours.
func DefaultTheme() Theme {
	return Theme{
		File:      color.New(color.FgGreen),
		Directory: color.New(color.FgBlue),
		Symlink:   color.New(color.FgCyan),
		Error:     color.New(color.FgRed, color.Bold),
	}
}

// NewTheme applies the colour names set in cfg over DefaultTheme.
func NewTheme(cfg config.ThemeConfig) (Theme, error) {
	t := DefaultTheme()
	for _, o := range []struct {
		name *string
		dst  **color.Color
	}{
		{cfg.File, &t.File},
		{cfg.Directory, &t.Directory},
		{cfg.Symlink, &t.Symlink},
		{cfg.Error, &t.Error},
	} {
		if o.name == nil {
			continue
		}
		c, err := parseColor(*o.name)
		if err != nil {
			return Theme{}, err
		}
		*o.dst = c
	}
	return t, nil
}

// Plain returns a copy of t that never emits escape sequences.
func (t Theme) Plain() Theme {
	plain := func(c *color.Color) *color.Color {
		if c == nil {
			c = color.New()
		}
		out := *c
		out.DisableColor()
		return &out
	}
	return Theme{
		File:      plain(t.File),
		Directory: plain(t.Directory),
		Symlink:   plain(t.Symlink),
		Error:     plain(t.Error),
	}
}

func parseColor(name string) (*color.Color, error) {
	attrs := []color.Attribute{}
	for _, part := range strings.Fields(strings.ToLower(name)) {
		if part == "bold" {
			attrs = append(attrs, color.Bold)
			continue
		}
		a, ok := colorNames[part]
		if !ok {
			return nil, fmt.Errorf("unknown colour %q", part)
		}
		attrs = append(attrs, a)
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("empty colour name")
	}
	return color.New(attrs...), nil
}
