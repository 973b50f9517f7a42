package event

import (
	"strings"
	"sync"
)

var (
	nameToType = make(map[string]EventType)
	typeToName = make(map[EventType]string)
	initOnce   sync.Once
)

// RegisterType maps a config name to an EventType
func RegisterType(name string, et EventType) {
	nameToType[name] = et
	typeToName[et] = name
}

// GetEventType resolves a trigger name, "Tick" maps to EventTick
func GetEventType(name string) (EventType, bool) {
	InitRegistry()
	if strings.EqualFold(name, "Tick") {
		return EventTick, true
	}
	et, ok := nameToType[name]
	return et, ok
}

// GetEventName returns the registered name of et
func GetEventName(et EventType) string {
	InitRegistry()
	if et == EventTick {
		return "Tick"
	}
	if name, ok := typeToName[et]; ok {
		return name
	}
	return "EventUnknown"
}

func (t EventType) String() string {
	return GetEventName(t)
}

// InitRegistry registers every board event, safe to call repeatedly
func InitRegistry() {
	initOnce.Do(func() {
		RegisterType("EventAddRequested", EventAddRequested)
		RegisterType("EventRemoveRequested", EventRemoveRequested)
		RegisterType("EventDispenseComplete", EventDispenseComplete)
		RegisterType("EventCountSettled", EventCountSettled)
		RegisterType("EventAnimationStart", EventAnimationStart)
		RegisterType("EventStackFull", EventStackFull)

		RegisterType("EventCorrectAnswer", EventCorrectAnswer)
		RegisterType("EventIncorrectAnswer", EventIncorrectAnswer)

		RegisterType("EventConnectionMade", EventConnectionMade)
		RegisterType("EventConnectionsCleared", EventConnectionsCleared)
		RegisterType("EventPointerDown", EventPointerDown)
		RegisterType("EventPointerUp", EventPointerUp)
		RegisterType("EventPointerCancel", EventPointerCancel)
		RegisterType("EventClick", EventClick)

		RegisterType("EventTutorialStep", EventTutorialStep)
	})
}
