package action

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// KeyPress is a parsed key with its modifiers
type KeyPress struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
	Key   string // base key, e.g. "c", "enter", "f1"
}

var modifiers = map[string]func(*KeyPress){
	"ctrl":    func(k *KeyPress) { k.Ctrl = true },
	"control": func(k *KeyPress) { k.Ctrl = true },
	"alt":     func(k *KeyPress) { k.Alt = true },
	"option":  func(k *KeyPress) { k.Alt = true },
	"shift":   func(k *KeyPress) { k.Shift = true },
	"meta":    func(k *KeyPress) { k.Meta = true },
	"cmd":     func(k *KeyPress) { k.Meta = true },
	"command": func(k *KeyPress) { k.Meta = true },
	"win":     func(k *KeyPress) { k.Meta = true },
	"super":   func(k *KeyPress) { k.Meta = true },
}

// Terminal sequences of named keys
var namedKeys = map[string]string{
	"enter":     "\r",
	"tab":       "\t",
	"esc":       "\x1b",
	"space":     " ",
	"backspace": "\x7f",
	"delete":    "\x1b[3~",
	"insert":    "\x1b[2~",
	"home":      "\x1b[H",
	"end":       "\x1b[F",
	"pageup":    "\x1b[5~",
	"pagedown":  "\x1b[6~",
	"up":        "\x1b[A",
	"down":      "\x1b[B",
	"right":     "\x1b[C",
	"left":      "\x1b[D",
	"f1":        "\x1bOP",
	"f2":        "\x1bOQ",
	"f3":        "\x1bOR",
	"f4":        "\x1bOS",
	"f5":        "\x1b[15~",
	"f6":        "\x1b[17~",
	"f7":        "\x1b[18~",
	"f8":        "\x1b[19~",
	"f9":        "\x1b[20~",
	"f10":       "\x1b[21~",
	"f11":       "\x1b[23~",
	"f12":       "\x1b[24~",
}

var keyAliases = map[string]string{
	"return": "enter",
	"escape": "esc",
	"del":    "delete",
	"ins":    "insert",
	"pgup":   "pageup",
	"pgdn":   "pagedown",
}

// Control bytes for ctrl with punctuation
var ctrlPunct = map[byte]byte{
	'[':  0x1b,
	'\\': 0x1c,
	']':  0x1d,
	'^':  0x1e,
	'_':  0x1f,
	'?':  0x7f,
}

// ParseKey parses a key string like "ctrl+shift+c". Key names are case
// insensitive.
func ParseKey(s string) (KeyPress, error) {
	var kp KeyPress

	parts := strings.Split(strings.ToLower(s), "+")
	last := len(parts) - 1
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i == last {
			kp.Key = part
			break
		}
		set, ok := modifiers[part]
		if !ok {
			return KeyPress{}, fmt.Errorf("unknown modifier: %s", part)
		}
		set(&kp)
	}

	if kp.Key == "" {
		return KeyPress{}, fmt.Errorf("no key specified")
	}
	if !isValidKey(kp.Key) {
		return KeyPress{}, fmt.Errorf("invalid key: %s", kp.Key)
	}

	return kp, nil
}

// ParseKeys parses every key of a sequence
func ParseKeys(keys []string) ([]KeyPress, error) {
	out := make([]KeyPress, 0, len(keys))
	for _, s := range keys {
		kp, err := ParseKey(s)
		if err != nil {
			return nil, fmt.Errorf("invalid key %q: %w", s, err)
		}
		out = append(out, kp)
	}
	return out, nil
}

func canonicalKey(key string) string {
	if alias, ok := keyAliases[key]; ok {
		return alias
	}
	return key
}

func isValidKey(key string) bool {
	if utf8.RuneCountInString(key) == 1 {
		return true
	}
	_, ok := namedKeys[canonicalKey(key)]
	return ok
}

// ToBytes returns the bytes a terminal sends for the key
func (kp KeyPress) ToBytes() []byte {
	if kp.Ctrl && !kp.Alt && !kp.Meta && len(kp.Key) == 1 {
		c := kp.Key[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []byte{c - 'a' + 1}
		case c >= 'A' && c <= 'Z':
			return []byte{c - 'A' + 1}
		}
		if b, ok := ctrlPunct[c]; ok {
			return []byte{b}
		}
	}

	if seq, ok := namedKeys[canonicalKey(kp.Key)]; ok {
		return []byte(seq)
	}

	if len(kp.Key) != 1 {
		return nil
	}

	c := kp.Key[0]
	if kp.Alt {
		return []byte{0x1b, c}
	}
	if kp.Shift && c >= 'a' && c <= 'z' {
		return []byte{c - 'a' + 'A'}
	}
	return []byte{c}
}

func (kp KeyPress) String() string {
	var b strings.Builder
	for _, m := range []struct {
		on   bool
		name string
	}{{kp.Ctrl, "ctrl"}, {kp.Alt, "alt"}, {kp.Shift, "shift"}, {kp.Meta, "meta"}} {
		if m.on {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(kp.Key)
	return b.String()
}
