package asset

// ConnectionFSM is the default endpoint connection graph
// Guards and actions are registered by connect.Engine
const ConnectionFSM = `
initial = "Idle"

[states.Idle]
on_enter = [{ action = "ClearAnchor" }]
transitions = [
    { trigger = "EventPointerDown", target = "Dragging", guard = "InputUnused" },
    { trigger = "EventClick", target = "PointSelected", guard = "InputUnused" },
]

# Anchored holds the shared anchor for both interaction styles
[states.Anchored]
on_enter = [{ action = "Anchor" }]

[states.Dragging]
parent = "Anchored"
transitions = [
    { trigger = "EventClick", target = "PointSelected", guard = "InputIsAnchor" },
    { trigger = "EventPointerUp", target = "Idle", guard = "ValidConnection", actions = [{ action = "Commit" }] },
    { trigger = "EventPointerUp", target = "Idle", actions = [{ action = "Reject" }] },
    { trigger = "EventPointerCancel", target = "Idle" },
]

[states.PointSelected]
parent = "Anchored"
transitions = [
    { trigger = "EventClick", target = "Idle", guard = "ValidConnection", actions = [{ action = "Commit" }] },
    { trigger = "EventClick", target = "Idle", guard = "InputUnused", actions = [{ action = "Reject" }] },
]
`
