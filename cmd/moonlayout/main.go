// Command moonlayout loads a YAML scene, runs layout frames over it and
// prints the computed geometry and per-target paint order.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/gogpu/moon"
	"github.com/gogpu/moon/internal/scenefile"
)

// env is the state shared by subcommands once flags are parsed.
type env struct {
	cfg moon.Config
	out io.Writer
}

func (e *env) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := moon.LoadConfig(cmd.String("config"))
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return ctx, err
	}
	moon.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	e.cfg = cfg
	return ctx, nil
}

// run loads the scene named by the first argument and runs frames over it.
func (e *env) run(ctx context.Context, cmd *cli.Command, frames int) (*moon.Engine, *scenefile.Scene, moon.FrameReport, error) {
	if cmd.Args().Len() != 1 {
		return nil, nil, moon.FrameReport{}, fmt.Errorf("expected exactly one SCENE argument, got %d", cmd.Args().Len())
	}
	f, err := scenefile.Load(cmd.Args().First())
	if err != nil {
		return nil, nil, moon.FrameReport{}, err
	}
	s, err := f.Build()
	if err != nil {
		return nil, nil, moon.FrameReport{}, fmt.Errorf("unable to build scene: %w", err)
	}

	engine := moon.NewEngine(moon.WithConfig(e.cfg))
	var rep moon.FrameReport
	for range max(frames, 1) {
		if rep, err = engine.Update(ctx, s.Scene); err != nil {
			return nil, nil, rep, fmt.Errorf("frame %d: %w", rep.Frame, err)
		}
		for _, ferr := range rep.Errors() {
			moon.Logger().Warn("moon: frame error", "frame", rep.Frame, "err", ferr)
		}
	}
	return engine, s, rep, nil
}

func (e *env) layout(ctx context.Context, cmd *cli.Command) error {
	engine, s, rep, err := e.run(ctx, cmd, int(cmd.Int("frames")))
	if err != nil {
		return err
	}
	fmt.Fprint(e.out, engine.DumpTree(s.Scene))
	fmt.Fprintf(e.out, "frame %d: synced=%d solver_writes=%d roots=%d stacked=%d geometry=%d transforms=%d clips=%d text=%d\n",
		rep.Frame, rep.NodesSynced, rep.SolverWrites, rep.LayoutRoots, rep.StackedNodes,
		rep.GeometryUpdates, rep.TransformWrites, rep.ClipWrites, rep.TextMeasures)
	return nil
}

func (e *env) stack(ctx context.Context, cmd *cli.Command) error {
	engine, s, _, err := e.run(ctx, cmd, 1)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(s.TargetIDs))
	for name := range s.TargetIDs {
		names = append(names, name)
	}
	slices.Sort(names)
	if only := cmd.String("target"); only != "" {
		if _, ok := s.TargetIDs[only]; !ok {
			return fmt.Errorf("unknown target %q", only)
		}
		names = []string{only}
	}
	for _, name := range names {
		fmt.Fprintf(e.out, "target %s\n", name)
		st, ok := engine.Stack(s.TargetIDs[name])
		if !ok {
			fmt.Fprintln(e.out, "  (nothing visible)")
			continue
		}
		fmt.Fprint(e.out, st.Dump())
	}
	return nil
}

func (e *env) dumpConfig(_ context.Context, cmd *cli.Command) error {
	cfg := e.cfg
	if cmd.Bool("default") {
		cfg = moon.DefaultConfig()
	}
	data, err := cfg.Dump()
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}
	_, err = e.out.Write(data)
	return err
}

func newApp(e *env) *cli.Command {
	return &cli.Command{
		Name:            "moonlayout",
		Usage:           "runs the moon layout engine over a YAML scene",
		HideHelpCommand: true,
		Before:          e.before,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.StringFlag{Name: "log-level", Usage: "override the configured log `LEVEL` (debug, info, warn, error)"},
		},
		Commands: []*cli.Command{
			{
				Name:      "layout",
				Usage:     "Runs frames and prints the node tree with computed geometry",
				ArgsUsage: "SCENE",
				Action:    e.layout,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "frames", Aliases: []string{"n"}, Value: 1, Usage: "number of frames to run"},
				},
			},
			{
				Name:      "stack",
				Usage:     "Prints the paint order of every render target",
				ArgsUsage: "SCENE",
				Action:    e.stack,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "target", Aliases: []string{"t"}, Usage: "print only target `NAME`"},
				},
			},
			{
				Name:   "dumpconfig",
				Usage:  "Dumps either default or actual configuration (YAML)",
				Action: e.dumpConfig,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default configuration"},
				},
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp(&env{out: os.Stdout}).Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "moonlayout: %v\n", err)
		os.Exit(1)
	}
}
