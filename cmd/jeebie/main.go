package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := newApp(os.Stdout, os.Stderr)

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "jeebie"
	app.Description = "A headless gameboy emulator core"
	app.Usage = "run, inspect and disassemble Game Boy ROMs"
	app.Version = "1.0.0"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "debug, info, warn or error",
			Value:  "info",
			EnvVar: "JEEBIE_LOG_LEVEL",
		},
	}
	app.Before = func(c *cli.Context) error {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.GlobalString("log-level"))); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))
		return nil
	}
	app.Commands = []cli.Command{
		runCommand(),
		infoCommand(),
		disasmCommand(),
	}
	return app
}

var romFlag = cli.StringFlag{
	Name:   "rom",
	Usage:  "Path to the ROM file (.gb, .gz, .zip or .7z)",
	EnvVar: "JEEBIE_ROM",
}

// romPath returns the --rom flag, falling back to the first argument.
func romPath(c *cli.Context) (string, error) {
	if path := c.String("rom"); path != "" {
		return path, nil
	}
	if c.NArg() > 0 {
		return c.Args().First(), nil
	}
	return "", fmt.Errorf("no ROM path provided")
}
