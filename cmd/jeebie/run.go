package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/valerio/go-jeebie-core/jeebie"
	"github.com/valerio/go-jeebie-core/jeebie/cpu"
	"github.com/valerio/go-jeebie-core/jeebie/disasm"
	"github.com/valerio/go-jeebie-core/jeebie/input"
	"github.com/valerio/go-jeebie-core/jeebie/timing"
	"github.com/valerio/go-jeebie-core/jeebie/video"
)

const (
	unimplementedHalt = "halt"
	unimplementedSkip = "skip"
)

func runCommand() cli.Command {
	return cli.Command{
		Name:      "run",
		Usage:     "run a ROM headless for a number of frames",
		ArgsUsage: "[ROM file]",
		Flags: []cli.Flag{
			romFlag,
			cli.StringFlag{
				Name:   "boot-rom",
				Usage:  "Path to a 256 byte DMG boot ROM; without it execution starts at 0x0100",
				EnvVar: "JEEBIE_BOOT_ROM",
			},
			cli.IntFlag{
				Name:  "frames",
				Usage: "Number of frames to run",
				Value: 60,
			},
			cli.StringFlag{
				Name:  "step",
				Usage: "Unit of work per step: instruction, scanline or frame",
				Value: jeebie.StepFrame.String(),
			},
			cli.BoolFlag{
				Name:  "trace",
				Usage: "Print every instruction before it executes",
			},
			cli.StringFlag{
				Name:  "on-unimplemented",
				Usage: "What to do on an unimplemented opcode: halt or skip",
				Value: unimplementedHalt,
			},
			cli.BoolFlag{
				Name:  "serial",
				Usage: "Copy bytes sent over the link port to stdout",
			},
			cli.StringFlag{
				Name:   "input",
				Usage:  "Scripted joypad input, e.g. \"30:start,36:start:release\"",
				EnvVar: "JEEBIE_INPUT",
			},
			cli.StringFlag{
				Name:   "realtime",
				Usage:  "Frame pacing: none, ticker or adaptive",
				Value:  string(timing.KindNone),
				EnvVar: "JEEBIE_REALTIME",
			},
		},
		Action: runEmulator,
	}
}

func runEmulator(c *cli.Context) error {
	path, err := romPath(c)
	if err != nil {
		cli.ShowCommandHelp(c, "run")
		return err
	}

	frames := c.Int("frames")
	if frames <= 0 {
		return errors.New("--frames must be positive")
	}

	mode, err := jeebie.ParseStepMode(c.String("step"))
	if err != nil {
		return err
	}
	trace := c.Bool("trace")
	if trace {
		mode = jeebie.StepInstruction
	}

	policy := c.String("on-unimplemented")
	if policy != unimplementedHalt && policy != unimplementedSkip {
		return fmt.Errorf("unknown --on-unimplemented policy %q", policy)
	}

	script, err := input.ParseScript(c.String("input"))
	if err != nil {
		return err
	}

	limiter, err := timing.New(timing.Kind(c.String("realtime")), timing.FrameDuration())
	if err != nil {
		return err
	}
	if t, ok := limiter.(*timing.TickerLimiter); ok {
		defer t.Stop()
	}

	opts := []jeebie.Option{jeebie.WithLogger(slog.Default())}
	if bootPath := c.String("boot-rom"); bootPath != "" {
		boot, err := os.ReadFile(bootPath)
		if err != nil {
			return fmt.Errorf("reading boot rom: %w", err)
		}
		opts = append(opts, jeebie.WithBootROM(boot))
	}
	out := c.App.Writer
	if c.Bool("serial") {
		opts = append(opts, jeebie.WithSerialWriter(out))
	}

	emu, err := jeebie.NewWithFile(path, opts...)
	if err != nil {
		return err
	}
	defer emu.Flush()

	slog.Info("Running headless mode", "frames", frames, "step", mode, "realtime", c.String("realtime"))

	limiter.Reset()
	for emu.Frames() < uint64(frames) {
		script.Apply(emu.Frames(), emu)
		if trace {
			traceInstruction(out, emu)
		}

		report, err := emu.Step(mode)
		if err != nil {
			var unimpl *cpu.UnimplementedOpcodeError
			if policy == unimplementedSkip && errors.As(err, &unimpl) {
				slog.Warn("skipping unimplemented opcode", "error", err)
				continue
			}
			emu.ExtractDebugData().Dump(c.App.ErrWriter, 16)
			return err
		}

		if report.Events&video.FrameDone != 0 {
			frame := emu.Frames()
			if frame%60 == 0 {
				slog.Debug("Frame progress", "completed", frame, "total", frames)
			}
			limiter.WaitForNextFrame()
		}
	}

	slog.Info("Headless execution completed",
		"frames", emu.Frames(),
		"instructions", emu.Instructions(),
		"ticks", emu.Ticks())
	return nil
}

func traceInstruction(w io.Writer, emu *jeebie.DMG) {
	line := disasm.DisassembleAt(emu.CPU().PC(), emu.MMU())
	fmt.Fprintf(w, "%-32s %s\n", line, emu.CPU().Registers())
}
