package parameter

import "time"

// Frame Loop
const (
	FrameInterval = 16 * time.Millisecond

	// InputChannelSize buffers terminal events between poller and frame loop
	InputChannelSize = 64
)

// Block Metrics (terminal cells)
const (
	// BlockWidth is the width of one block in columns
	BlockWidth = 6

	// BlockHeight is the height of one block in rows
	BlockHeight = 1.0

	// BlockGap is the vertical space between blocks in rows
	BlockGap = 0.0

	// EndpointRadius is the hit radius around an endpoint in cells
	EndpointRadius = 1.0
)

// Layout
const (
	KeypadWidth     = 17
	ComparatorWidth = 21
	StackColumnGap  = 4
	DispenserHeight = 2
	HeaderHeight    = 2
	FooterHeight    = 3
)
