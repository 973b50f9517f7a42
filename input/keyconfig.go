package input

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

// Rune aliases for keys that can't be bare single-char TOML keys
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
}

// keyByName resolves lower-cased tcell key names
var keyByName = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, name := range tcell.KeyNames {
		m[strings.ToLower(name)] = k
	}
	return m
}()

type keymapFile struct {
	Runes map[string]string `toml:"runes"`
	Keys  map[string]string `toml:"keys"`
}

// LoadKeyConfig parses TOML keymap data into a sparse KeyTable
// Unknown action names, key names or sections are errors
func LoadKeyConfig(data []byte) (*KeyTable, error) {
	var file keymapFile
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, errors.Wrap(err, "keymap parse")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("keymap: unknown entry %q", undecoded[0].String())
	}

	kt := &KeyTable{}
	if file.Runes != nil {
		kt.Runes = make(map[rune]IntentType, len(file.Runes))
		for keyStr, action := range file.Runes {
			r, err := resolveRune(keyStr)
			if err != nil {
				return nil, errors.Wrapf(err, "[runes] key %q", keyStr)
			}
			it, err := resolveAction(action)
			if err != nil {
				return nil, errors.Wrapf(err, "[runes] key %q", keyStr)
			}
			kt.Runes[r] = it
		}
	}
	if file.Keys != nil {
		kt.Keys = make(map[tcell.Key]IntentType, len(file.Keys))
		for keyStr, action := range file.Keys {
			k, ok := keyByName[strings.ToLower(keyStr)]
			if !ok {
				return nil, errors.Errorf("[keys] unknown key name: %q", keyStr)
			}
			it, err := resolveAction(action)
			if err != nil {
				return nil, errors.Wrapf(err, "[keys] key %q", keyStr)
			}
			kt.Keys[k] = it
		}
	}
	return kt, nil
}

// LoadKeyConfigFile reads a keymap and merges it over the defaults
func LoadKeyConfigFile(path string) (*KeyTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read keymap %s", path)
	}
	override, err := LoadKeyConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "keymap %s", path)
	}
	return MergeKeyTable(DefaultKeyTable(), override), nil
}

func resolveRune(s string) (rune, error) {
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, nil
	}
	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}
	return 0, errors.Errorf("invalid rune key %q (expected single character or alias)", s)
}

func resolveAction(name string) (IntentType, error) {
	it, ok := actionRegistry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return IntentNone, errors.Errorf("unknown action %q", name)
	}
	return it, nil
}
