package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/blockcompare/asset"
)

// KeyTable maps keys to intents
// A nil map in an override table leaves the base untouched
type KeyTable struct {
	Runes map[rune]IntentType
	Keys  map[tcell.Key]IntentType
}

// DefaultKeyTable returns the built-in bindings
func DefaultKeyTable() *KeyTable {
	kt, err := LoadKeyConfig([]byte(asset.DefaultKeymap))
	if err != nil {
		panic("input: embedded keymap: " + err.Error())
	}
	return kt
}

// Clone returns a deep copy
func (kt *KeyTable) Clone() *KeyTable {
	c := &KeyTable{
		Runes: make(map[rune]IntentType, len(kt.Runes)),
		Keys:  make(map[tcell.Key]IntentType, len(kt.Keys)),
	}
	for k, v := range kt.Runes {
		c.Runes[k] = v
	}
	for k, v := range kt.Keys {
		c.Keys[k] = v
	}
	return c
}

// MergeKeyTable overlays override on base, "none" bindings remove the key
func MergeKeyTable(base, override *KeyTable) *KeyTable {
	result := base.Clone()
	for k, v := range override.Runes {
		if v == IntentNone {
			delete(result.Runes, k)
		} else {
			result.Runes[k] = v
		}
	}
	for k, v := range override.Keys {
		if v == IntentNone {
			delete(result.Keys, k)
		} else {
			result.Keys[k] = v
		}
	}
	return result
}
