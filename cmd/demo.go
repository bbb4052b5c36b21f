package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/zoobzio/invz"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	stepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

var demoCmd = &cobra.Command{
	Use:   "demo <name>",
	Short: "Run a pipeline demo",
	Long:  "Compile an example preprocessing pipeline, run it forward, then undo it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		for _, d := range demos {
			if d.name == args[0] {
				return d.run()
			}
		}
		return fmt.Errorf("unknown demo %q (try: invz list)", args[0])
	},
}

type demo struct {
	name        string
	description string
	run         func() error
}

var demos = []demo{
	{
		name:        "scaling",
		description: "Shift and scale a reading, then undo both steps",
		run:         runScalingDemo,
	},
	{
		name:        "zscore",
		description: "Standardize a value against fixed statistics and restore it",
		run:         runZScoreDemo,
	},
	{
		name:        "multi",
		description: "Fan two readings out over nested pipelines and undo both",
		run:         runMultiDemo,
	},
}

// progress prints a per-step progress line, indented by the frame's
// pipeline nesting depth.
func progress(fr invz.Frame, name string) {
	fmt.Println(stepStyle.Render(fr.Prefix() + "running " + name))
}

// Shift translates a value by a fixed offset.

type shiftConfig struct {
	Offset float64
}

var shift = invz.Register(invz.NewIdentity("shift", "Translates by a fixed offset."),
	func(_ context.Context, fr invz.Frame, cfg shiftConfig, args ...any) (any, error) {
		progress(fr, "shift")
		return args[0].(float64) + cfg.Offset, nil
	}).
	WithInverse(func(_ context.Context, fr invz.Frame, cfg shiftConfig, args ...any) (any, error) {
		progress(fr, "shift (inverse)")
		return args[0].(float64) - cfg.Offset, nil
	})

// Scale multiplies a value by a fixed factor.

type scaleConfig struct {
	Factor float64
}

func (c scaleConfig) Validate() error {
	if c.Factor == 0 {
		return fmt.Errorf("factor must be non-zero")
	}
	return nil
}

var scale = invz.Register(invz.NewIdentity("scale", "Multiplies by a fixed factor."),
	func(_ context.Context, fr invz.Frame, cfg scaleConfig, args ...any) (any, error) {
		progress(fr, "scale")
		return args[0].(float64) * cfg.Factor, nil
	}).
	WithInverse(func(_ context.Context, fr invz.Frame, cfg scaleConfig, args ...any) (any, error) {
		progress(fr, "scale (inverse)")
		return args[0].(float64) / cfg.Factor, nil
	})

// zscore standardizes against fixed statistics, class-component style:
// both parameters live on the instance for the Component's lifetime.

type zscoreConfig struct {
	Mean   float64
	StdDev float64
}

type zscoreOp struct {
	cfg zscoreConfig
}

func (z *zscoreOp) Call(_ context.Context, fr invz.Frame, args ...any) (any, error) {
	progress(fr, "zscore")
	return (args[0].(float64) - z.cfg.Mean) / z.cfg.StdDev, nil
}

func (z *zscoreOp) Inverse(_ context.Context, fr invz.Frame, args ...any) (any, error) {
	progress(fr, "zscore (inverse)")
	return args[0].(float64)*z.cfg.StdDev + z.cfg.Mean, nil
}

var zscore = invz.RegisterClass(invz.NewIdentity("zscore", "Standardizes against fixed statistics."),
	func(cfg zscoreConfig) (invz.Transformer, error) {
		if cfg.StdDev == 0 {
			return nil, fmt.Errorf("standard deviation must be non-zero")
		}
		return &zscoreOp{cfg: cfg}, nil
	})

func runScalingDemo() error {
	list, err := invz.Chain(
		shift.New(shiftConfig{Offset: -32}),
		scale.New(scaleConfig{Factor: 5.0 / 9.0}),
	)
	if err != nil {
		return err
	}
	task, err := list.ToTask()
	if err != nil {
		return err
	}
	defer task.Close()

	fmt.Println(titleStyle.Render("Fahrenheit to Celsius"))
	fmt.Println(stepStyle.Render(task.String()))
	fmt.Println()
	fmt.Println(task.Tree())

	return walk(task, 212.0)
}

func runZScoreDemo() error {
	list, err := invz.Chain(
		shift.New(shiftConfig{Offset: 0.5}),
		zscore.New(zscoreConfig{Mean: 10, StdDev: 2}),
	)
	if err != nil {
		return err
	}
	task, err := list.ToTask()
	if err != nil {
		return err
	}
	defer task.Close()

	fmt.Println(titleStyle.Render("Standardization"))
	fmt.Println(stepStyle.Render(task.String()))
	fmt.Println()
	fmt.Println(task.Tree())

	return walk(task, 11.5)
}

func runMultiDemo() error {
	conversion, err := invz.Chain(
		shift.New(shiftConfig{Offset: -32}),
		scale.New(scaleConfig{Factor: 5.0 / 9.0}),
	)
	if err != nil {
		return err
	}

	fan, err := invz.Multi(invz.NewIdentity("per-reading", "Routes one reading per branch."),
		conversion,
		zscore.New(zscoreConfig{Mean: 10, StdDev: 2}),
	)
	if err != nil {
		return err
	}
	task, err := fan.ToTask()
	if err != nil {
		return err
	}
	defer task.Close()

	fmt.Println(titleStyle.Render("Per-reading fan-out"))
	fmt.Println(stepStyle.Render(task.String()))
	fmt.Println()
	fmt.Println(task.Tree())

	ctx := context.Background()

	forward, err := task.Run(ctx, 212.0, 11.5)
	if err != nil {
		return err
	}
	outputs := forward.(invz.Tuple)
	fmt.Printf("forward:  [212 11.5] -> %s\n", valueStyle.Render(fmt.Sprintf("%v", outputs)))

	back, err := task.Inverse(ctx, outputs...)
	if err != nil {
		return err
	}
	fmt.Printf("inverse:  %v -> %s\n", outputs, valueStyle.Render(fmt.Sprintf("%v", back)))
	return nil
}

// walk runs a task forward and back, printing each traversal.
func walk(task *invz.Task, input float64) error {
	ctx := context.Background()

	forward, err := task.Run(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("forward:  %v -> %s\n", input, valueStyle.Render(fmt.Sprintf("%v", forward)))

	back, err := task.Inverse(ctx, forward)
	if err != nil {
		return err
	}
	fmt.Printf("inverse:  %v -> %s\n", forward, valueStyle.Render(fmt.Sprintf("%v", back)))
	return nil
}
