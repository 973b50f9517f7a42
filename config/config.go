// Package config loads session settings from a TOML file and the environment
package config

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/lixenwraith/blockcompare/board"
	"github.com/lixenwraith/blockcompare/connect"
	"github.com/lixenwraith/blockcompare/geometry"
	"github.com/lixenwraith/blockcompare/parameter"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "BLOCKCOMPARE_"

// Config is the full set of tunables
// Precedence is defaults, then file, then environment, then flags
type Config struct {
	MaxBlocks    int `toml:"max_blocks" env:"MAX_BLOCKS"`
	InitialLeft  int `toml:"initial_left" env:"INITIAL_LEFT"`
	InitialRight int `toml:"initial_right" env:"INITIAL_RIGHT"`

	AddSettle         time.Duration `toml:"add_settle" env:"ADD_SETTLE"`
	RemoveSettle      time.Duration `toml:"remove_settle" env:"REMOVE_SETTLE"`
	SequenceStep      time.Duration `toml:"sequence_step" env:"SEQUENCE_STEP"`
	DispenseAnimation time.Duration `toml:"dispense_animation" env:"DISPENSE_ANIMATION"`
	DropAnimation     time.Duration `toml:"drop_animation" env:"DROP_ANIMATION"`
	FeedbackFlash     time.Duration `toml:"feedback_flash" env:"FEEDBACK_FLASH"`
	IncorrectFlash    time.Duration `toml:"incorrect_flash" env:"INCORRECT_FLASH"`
	LongPress         time.Duration `toml:"long_press" env:"LONG_PRESS"`

	BlockHeight    float64 `toml:"block_height" env:"BLOCK_HEIGHT"`
	BlockGap       float64 `toml:"block_gap" env:"BLOCK_GAP"`
	EndpointRadius float64 `toml:"endpoint_radius" env:"ENDPOINT_RADIUS"`

	LineMode       string `toml:"line_mode" env:"LINE_MODE"`
	ManualDispense bool   `toml:"manual_dispense" env:"MANUAL_DISPENSE"`
	Tutorial       bool   `toml:"tutorial" env:"TUTORIAL"`

	Keymap   string `toml:"keymap" env:"KEYMAP"`
	FSMGraph string `toml:"fsm_graph" env:"FSM_GRAPH"`

	Audio AudioConfig `toml:"audio" envPrefix:"AUDIO_"`
}

// AudioConfig controls feedback tones
type AudioConfig struct {
	Enabled    bool    `toml:"enabled" env:"ENABLED"`
	Volume     float64 `toml:"volume" env:"VOLUME"`
	CountTones bool    `toml:"count_tones" env:"COUNT_TONES"`
}

// Default returns the stock configuration
func Default() *Config {
	return &Config{
		MaxBlocks:         parameter.MaxBlocks,
		InitialLeft:       parameter.InitialCount,
		InitialRight:      parameter.InitialCount,
		AddSettle:         parameter.AddSettle,
		RemoveSettle:      parameter.RemoveSettle,
		SequenceStep:      parameter.SequenceStep,
		DispenseAnimation: parameter.DispenseAnimation,
		DropAnimation:     parameter.DropAnimation,
		FeedbackFlash:     parameter.FeedbackFlash,
		IncorrectFlash:    parameter.IncorrectFlash,
		LongPress:         parameter.LongPressDuration,
		BlockHeight:       parameter.BlockHeight,
		BlockGap:          parameter.BlockGap,
		EndpointRadius:    parameter.EndpointRadius,
		LineMode:          connect.ModeShow.String(),
		Tutorial:          true,
		Audio: AudioConfig{
			Enabled: true,
			Volume:  1,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and validates
// An empty path skips the file
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Errorf("config %s: unknown key %q", path, undecoded[0].String())
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from BLOCKCOMPARE_ variables
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.Wrap(err, "parse env")
	}
	return nil
}

// Validate rejects nonsense and clamps values into range
func (c *Config) Validate() error {
	if c.MaxBlocks < 1 {
		return errors.Errorf("max_blocks must be at least 1, got %d", c.MaxBlocks)
	}
	durations := map[string]time.Duration{
		"add_settle":         c.AddSettle,
		"remove_settle":      c.RemoveSettle,
		"sequence_step":      c.SequenceStep,
		"dispense_animation": c.DispenseAnimation,
		"drop_animation":     c.DropAnimation,
		"feedback_flash":     c.FeedbackFlash,
		"incorrect_flash":    c.IncorrectFlash,
		"long_press":         c.LongPress,
	}
	for name, d := range durations {
		if d < 0 {
			return errors.Errorf("%s must not be negative, got %s", name, d)
		}
	}
	if c.BlockHeight <= 0 {
		return errors.Errorf("block_height must be positive, got %v", c.BlockHeight)
	}
	if c.BlockGap < 0 || c.EndpointRadius < 0 {
		return errors.New("block_gap and endpoint_radius must not be negative")
	}
	if _, ok := connect.ParseMode(c.LineMode); !ok {
		return errors.Errorf("line_mode must be show or draw, got %q", c.LineMode)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return errors.Errorf("audio.volume must be within [0, 1], got %v", c.Audio.Volume)
	}

	c.InitialLeft = min(max(c.InitialLeft, 0), c.MaxBlocks)
	c.InitialRight = min(max(c.InitialRight, 0), c.MaxBlocks)
	c.IncorrectFlash = min(max(c.IncorrectFlash, parameter.IncorrectFlashMin), parameter.IncorrectFlashMax)
	return nil
}

// BoardOptions converts the configuration for board.New
// Geometry, clock, narrator and logger are left for the caller
func (c *Config) BoardOptions(logger *log.Logger) board.Options {
	mode, _ := connect.ParseMode(c.LineMode)
	return board.Options{
		MaxBlocks:         c.MaxBlocks,
		InitialLeft:       c.InitialLeft,
		InitialRight:      c.InitialRight,
		AddSettle:         c.AddSettle,
		RemoveSettle:      c.RemoveSettle,
		SequenceStep:      c.SequenceStep,
		DispenseAnimation: c.DispenseAnimation,
		FeedbackFlash:     c.FeedbackFlash,
		IncorrectFlash:    c.IncorrectFlash,
		LongPress:         c.LongPress,
		Metrics:           geometry.Metrics{BlockHeight: c.BlockHeight, BlockGap: c.BlockGap},
		EndpointRadius:    c.EndpointRadius,
		LineMode:          mode,
		GraphPath:         c.FSMGraph,
		ManualDispense:    c.ManualDispense,
		Tutorial:          c.Tutorial,
		Logger:            logger,
	}
}
