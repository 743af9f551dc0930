package config

import (
	"fmt"
	"reflect"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"badtracing/engine"
)

// Color is an engine colour written as "#rrggbb" in configuration files.
type Color engine.Color

func (c Color) Engine() engine.Color { return engine.Color(c) }

func (c Color) String() string { return fmt.Sprintf("#%06x", uint32(c)) }

func (c Color) MarshalYAML() (interface{}, error) { return c.String(), nil }

// ParseColor accepts "#rrggbb", "#rgb", "rrggbb" and "0xrrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color(engine.PackRGB(r, g, b)), nil
}

var colorType = reflect.TypeOf(Color(0))

// colorHook lets colours be given as strings in files, flags and the
// environment.
func colorHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != colorType || from.Kind() != reflect.String {
		return data, nil
	}
	return ParseColor(data.(string))
}
