package main

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/blockcompare/audio"
	"github.com/lixenwraith/blockcompare/board"
	"github.com/lixenwraith/blockcompare/config"
	"github.com/lixenwraith/blockcompare/core"
	"github.com/lixenwraith/blockcompare/engine"
	"github.com/lixenwraith/blockcompare/geometry"
	"github.com/lixenwraith/blockcompare/input"
	"github.com/lixenwraith/blockcompare/mode"
	"github.com/lixenwraith/blockcompare/parameter"
	"github.com/lixenwraith/blockcompare/render"
	"github.com/lixenwraith/blockcompare/tutorial"
)

type runOptions struct {
	left, right int
	lines       string
	keymap      string
	noTutorial  bool
	noAudio     bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play on the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return errors.Wrap(err, "create screen")
			}
			if err := screen.Init(); err != nil {
				return errors.Wrap(err, "init screen")
			}

			player, closeAudio := audio.Open(cfg.Audio.Enabled, cfg.Audio.Volume, loggerFromContext(ctx))
			defer closeAudio()

			s, err := newSession(screen, cfg, player, loggerFromContext(ctx))
			if err != nil {
				screen.Fini()
				return err
			}
			return s.run(ctx)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.left, "left", 0, "initial left count")
	f.IntVar(&opts.right, "right", 0, "initial right count")
	f.StringVar(&opts.lines, "lines", "", "line mode: show or draw")
	f.StringVar(&opts.keymap, "keymap", "", "TOML keymap overriding the defaults")
	f.BoolVar(&opts.noTutorial, "no-tutorial", false, "skip the walkthrough")
	f.BoolVar(&opts.noAudio, "no-audio", false, "disable feedback tones")
	return cmd
}

// apply overlays explicitly set flags on cfg
func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("left") {
		cfg.InitialLeft = o.left
	}
	if f.Changed("right") {
		cfg.InitialRight = o.right
	}
	if f.Changed("lines") {
		cfg.LineMode = o.lines
	}
	if f.Changed("keymap") {
		cfg.Keymap = o.keymap
	}
	if o.noTutorial {
		cfg.Tutorial = false
	}
	if o.noAudio {
		cfg.Audio.Enabled = false
	}
	return cfg.Validate()
}

// session wires one board to a screen
type session struct {
	screen   tcell.Screen
	layout   *render.Layout
	board    *board.Board
	router   *mode.Router
	machine  *input.Machine
	renderer *render.TerminalRenderer
	logger   *log.Logger

	finiOnce sync.Once
}

func newSession(screen tcell.Screen, cfg *config.Config, player audio.Player, logger *log.Logger) (*session, error) {
	w, h := screen.Size()
	if w < render.ContentWidth() || h < render.ContentHeight(cfg.MaxBlocks) {
		logger.Warn("terminal smaller than board", "width", w, "height", h,
			"need_width", render.ContentWidth(), "need_height", render.ContentHeight(cfg.MaxBlocks))
	}
	layout := render.NewLayout(cfg.MaxBlocks, w, h)

	keys := input.DefaultKeyTable()
	if cfg.Keymap != "" {
		var err error
		if keys, err = input.LoadKeyConfigFile(cfg.Keymap); err != nil {
			return nil, err
		}
	}

	opts := cfg.BoardOptions(logger)
	opts.Geometry = layout
	opts.Metrics = terminalMetrics(cfg, logger)
	opts.Narrator = tutorial.NarratorFunc(func(text string) {
		logger.Info("tutorial", "text", text)
	})
	b, err := board.New(opts)
	if err != nil {
		return nil, err
	}

	anim := render.NewAnimator(b, cfg.DropAnimation)
	b.Register(anim)
	b.Register(audio.NewToneHandler(player, cfg.Audio.CountTones))

	var muter mode.Muter
	if m, ok := player.(mode.Muter); ok {
		muter = m
	}

	return &session{
		screen:   screen,
		layout:   layout,
		board:    b,
		router:   mode.NewRouter(b, layout, muter, logger),
		machine:  input.NewMachine(keys),
		renderer: render.NewTerminalRenderer(screen, layout, anim),
		logger:   logger.WithPrefix("session"),
	}, nil
}

// terminalMetrics pins blocks to one row each so endpoints fall on cell centres
func terminalMetrics(cfg *config.Config, logger *log.Logger) geometry.Metrics {
	if cfg.BlockHeight != parameter.BlockHeight || cfg.BlockGap != parameter.BlockGap {
		logger.Warn("terminal layout ignores block_height and block_gap",
			"block_height", cfg.BlockHeight, "block_gap", cfg.BlockGap)
	}
	return geometry.Metrics{BlockHeight: parameter.BlockHeight, BlockGap: parameter.BlockGap}
}

func (s *session) fini() {
	s.finiOnce.Do(func() {
		core.SetCrashRestore(nil)
		s.screen.Fini()
	})
}

// run owns the screen until the user quits or ctx is cancelled
func (s *session) run(ctx context.Context) error {
	core.SetCrashRestore(s.fini)
	defer s.fini()

	s.screen.EnableMouse()
	s.screen.HideCursor()
	s.screen.Clear()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	events := make(chan tcell.Event, parameter.InputChannelSize)
	g.Go(func() error {
		defer core.Recover()
		return s.poll(ctx, events)
	})
	g.Go(func() error {
		defer core.Recover()
		// Fini unblocks the poller
		defer s.fini()
		defer cancel()
		return s.loop(ctx, events)
	})
	return g.Wait()
}

// poll forwards terminal events until the screen is finalized
func (s *session) poll(ctx context.Context, events chan<- tcell.Event) error {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return nil
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

// loop ticks the board and draws a frame every interval
func (s *session) loop(ctx context.Context, events <-chan tcell.Event) error {
	pacer := engine.NewFramePacer(parameter.FrameInterval)
	defer pacer.Stop()

	s.frame()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if _, ok := ev.(*tcell.EventResize); ok {
				s.screen.Sync()
				s.layout.Resize(s.screen.Size())
			}
			if !s.router.Handle(s.machine.Process(ev)) {
				s.logger.Debug("quit", "frames", pacer.Frames())
				return nil
			}
		case now := <-pacer.C():
			s.frame()
			pacer.Done(now)
		}
	}
}

func (s *session) frame() {
	s.board.Tick()
	s.renderer.RenderFrame(s.board.Snapshot(), s.router.Status())
}
