package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/blockcompare/board"
	"github.com/lixenwraith/blockcompare/compare"
	"github.com/lixenwraith/blockcompare/config"
	"github.com/lixenwraith/blockcompare/connect"
	"github.com/lixenwraith/blockcompare/core"
	"github.com/lixenwraith/blockcompare/engine"
	"github.com/lixenwraith/blockcompare/render"
)

type snapshotOptions struct {
	left, right int
	lines       string
	connections []string
	answer      string
	color       bool
}

func newSnapshotCmd() *cobra.Command {
	opts := &snapshotOptions{left: -1, right: -1}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print a board without taking over the terminal",
		Example: `  blockcompare snapshot --left 3 --right 5
  blockcompare snapshot --left 4 --right 4 --connect left-top:right-top --connect left-bottom:right-bottom
  blockcompare snapshot --left 7 --right 2 --answer ">"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return writeSnapshot(cmd.OutOrStdout(), configFromContext(ctx), opts, loggerFromContext(ctx))
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.left, "left", -1, "left count (default from config)")
	f.IntVar(&opts.right, "right", -1, "right count (default from config)")
	f.StringVar(&opts.lines, "lines", "", "line mode: show or draw")
	f.StringArrayVar(&opts.connections, "connect", nil, "draw a line between two endpoints, e.g. left-top:right-top")
	f.StringVar(&opts.answer, "answer", "", "check an answer: <, = or >")
	f.BoolVar(&opts.color, "color", true, "style the output")
	return cmd
}

// writeSnapshot builds a still board on a fixed clock and prints it
func writeSnapshot(w io.Writer, cfg *config.Config, opts *snapshotOptions, logger *log.Logger) error {
	if opts.left >= 0 {
		cfg.InitialLeft = opts.left
	}
	if opts.right >= 0 {
		cfg.InitialRight = opts.right
	}
	if opts.lines != "" {
		cfg.LineMode = opts.lines
	}
	if len(opts.connections) > 0 {
		cfg.LineMode = connect.ModeDraw.String()
	}
	cfg.Tutorial = false
	if err := cfg.Validate(); err != nil {
		return err
	}

	layout := render.NewLayout(cfg.MaxBlocks, render.ContentWidth(), render.ContentHeight(cfg.MaxBlocks))
	bopts := cfg.BoardOptions(logger)
	bopts.Geometry = layout
	bopts.Metrics = terminalMetrics(cfg, logger)
	bopts.Clock = engine.NewMockTimeProvider(time.Unix(0, 0))
	b, err := board.New(bopts)
	if err != nil {
		return err
	}

	for _, arg := range opts.connections {
		from, to, err := parseConnection(arg)
		if err != nil {
			return err
		}
		before := len(b.Connections().Connections())
		b.Click(from)
		b.Click(to)
		if len(b.Connections().Connections()) == before {
			return errors.Errorf("connection %q was refused", arg)
		}
	}
	if opts.answer != "" {
		op, ok := compare.ParseOperator(opts.answer)
		if !ok {
			return errors.Errorf("unknown operator %q", opts.answer)
		}
		b.Answer(op)
	}
	b.Tick()

	out, err := render.RenderText(layout, b.Snapshot(), render.Status{}, opts.color)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// parseConnection reads "left-top:right-top"
func parseConnection(arg string) (core.Endpoint, core.Endpoint, error) {
	a, b, ok := strings.Cut(arg, ":")
	if !ok {
		return 0, 0, errors.Errorf("connection %q: want from:to", arg)
	}
	from, ok := core.ParseEndpoint(strings.TrimSpace(a))
	if !ok {
		return 0, 0, errors.Errorf("connection %q: unknown endpoint %q", arg, a)
	}
	to, ok := core.ParseEndpoint(strings.TrimSpace(b))
	if !ok {
		return 0, 0, errors.Errorf("connection %q: unknown endpoint %q", arg, b)
	}
	return from, to, nil
}
