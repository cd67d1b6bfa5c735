package backends

import (
	"fmt"

	"github.com/macrokeys/macrod/input"
)

// Linux evdev key codes for the keys macro profiles reference. Both the
// user-space and kernel-level variants speak evdev, so the table lives here.
var evdevCodes = map[input.Key]uint16{
	"esc": 1,
	"1":   2, "2": 3, "3": 4, "4": 5, "5": 6,
	"6": 7, "7": 8, "8": 9, "9": 10, "0": 11,
	"q": 16, "w": 17, "e": 18, "r": 19, "t": 20,
	"y": 21, "u": 22, "i": 23, "o": 24, "p": 25,
	"a": 30, "s": 31, "d": 32, "f": 33, "g": 34,
	"h": 35, "j": 36, "k": 37, "l": 38,
	"z": 44, "x": 45, "c": 46, "v": 47, "b": 48,
	"n": 49, "m": 50,
	"enter": 28, "ctrl": 29, "shift": 42, "alt": 56, "space": 57,
	"tab": 15, "backspace": 14,
	"f1": 59, "f2": 60, "f3": 61, "f4": 62, "f5": 63,
	"f6": 64, "f7": 65, "f8": 66, "f9": 67, "f10": 68,
	"f11": 87, "f12": 88,
	"f13": 183, "f14": 184, "f15": 185, "f16": 186, "f17": 187, "f18": 188,
	"f19": 189, "f20": 190, "f21": 191, "f22": 192, "f23": 193, "f24": 194,

	// mouse buttons (BTN_SIDE / BTN_EXTRA)
	"mouse4": 0x113,
	"mouse5": 0x114,
}

func evdevCode(key input.Key) (uint16, error) {
	code, ok := evdevCodes[key]
	if !ok {
		return 0, fmt.Errorf("no key code mapping for %q", key)
	}
	return code, nil
}
