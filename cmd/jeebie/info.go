package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"github.com/valerio/go-jeebie-core/jeebie/disasm"
	"github.com/valerio/go-jeebie-core/jeebie/memory"
	"github.com/valerio/go-jeebie-core/jeebie/rom"
)

func infoCommand() cli.Command {
	return cli.Command{
		Name:      "info",
		Usage:     "print the cartridge header and ROM fingerprint",
		ArgsUsage: "[ROM file]",
		Flags:     []cli.Flag{romFlag},
		Action:    showInfo,
	}
}

func showInfo(c *cli.Context) error {
	path, err := romPath(c)
	if err != nil {
		return err
	}
	data, err := rom.Load(path)
	if err != nil {
		return err
	}
	cart, err := memory.NewCartridgeWithData(data)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Title:       %s\n", cart.Title)
	fmt.Fprintf(w, "Type:        0x%02X (%s)\n", cart.Type, cart.MBCType)
	fmt.Fprintf(w, "ROM banks:   %d\n", cart.ROMBankCount)
	fmt.Fprintf(w, "RAM banks:   %d\n", cart.RAMBankCount)
	fmt.Fprintf(w, "Battery:     %t\n", cart.HasBattery)
	fmt.Fprintf(w, "RTC:         %t\n", cart.HasRTC)
	fmt.Fprintf(w, "Version:     %d\n", cart.Version)
	fmt.Fprintf(w, "Checksum:    0x%02X (valid: %t)\n", cart.HeaderChecksum, cart.ChecksumValid)
	fmt.Fprintf(w, "Size:        %d bytes\n", len(data))
	fmt.Fprintf(w, "Fingerprint: %016x\n", rom.Fingerprint(data))
	return nil
}

func disasmCommand() cli.Command {
	return cli.Command{
		Name:      "disasm",
		Usage:     "disassemble a ROM image",
		ArgsUsage: "[ROM file]",
		Flags: []cli.Flag{
			romFlag,
			cli.StringFlag{
				Name:  "start",
				Usage: "Address to start from, decimal or 0x prefixed hex",
				Value: "0x0100",
			},
			cli.IntFlag{
				Name:  "count",
				Usage: "Number of instructions",
				Value: 32,
			},
		},
		Action: disassemble,
	}
}

func disassemble(c *cli.Context) error {
	path, err := romPath(c)
	if err != nil {
		return err
	}
	start, err := parseAddress(c.String("start"))
	if err != nil {
		return err
	}
	data, err := rom.Load(path)
	if err != nil {
		return err
	}

	for _, line := range disasm.Disassemble(start, c.Int("count"), romImage(data)) {
		fmt.Fprintln(c.App.Writer, line)
	}
	return nil
}

// romImage reads a flat ROM as if it were mapped from 0x0000.
type romImage []byte

func (r romImage) Read(address uint16) uint8 {
	if int(address) >= len(r) {
		return 0xFF
	}
	return r[address]
}

func parseAddress(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint16(v), nil
}
