// Package payload holds the built-in messages the tester can send.
//
// The alert notation is not JSON and is not produced from a structure;
// it is sent exactly as written.
package payload

import (
	"errors"
	"fmt"
	"sort"
)

const (
	Hello = "Hello, Server"
	Alert = `Alert { new: true, type: Raid { from: "lmao", viewers: 9999 } }`
)

var ErrUnknownPreset = errors.New("unknown payload preset")

var presets = map[string]string{
	"hello": Hello,
	"alert": Alert,
}

// Resolve picks the text to send. A non-empty override always wins.
func Resolve(preset, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	text, ok := presets[preset]
	if !ok {
		return "", fmt.Errorf("%w: %q (available: %v)", ErrUnknownPreset, preset, Names())
	}
	return text, nil
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
