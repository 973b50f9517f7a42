package audio

import (
	"github.com/lixenwraith/blockcompare/event"
	"github.com/lixenwraith/blockcompare/parameter"
)

// ToneHandler plays answer feedback tones
// With CountTones set, each settled increase plays a tone pitched by the new count
type ToneHandler struct {
	player     Player
	CountTones bool
}

// NewToneHandler creates a handler driving player
func NewToneHandler(player Player, countTones bool) *ToneHandler {
	if player == nil {
		player = Silent{}
	}
	return &ToneHandler{player: player, CountTones: countTones}
}

func (h *ToneHandler) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventCorrectAnswer,
		event.EventIncorrectAnswer,
		event.EventCountSettled,
	}
}

func (h *ToneHandler) HandleEvent(ev event.Event) {
	switch ev.Type {
	case event.EventCorrectAnswer:
		h.player.PlayTone(parameter.CorrectToneLevel)
	case event.EventIncorrectAnswer:
		h.player.PlayTone(parameter.IncorrectToneLevel)
	case event.EventCountSettled:
		if h.CountTones && ev.Count > ev.Previous {
			h.player.PlayTone(ev.Count)
		}
	}
}
