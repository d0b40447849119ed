package main

import (
	"log/slog"
	"os"

	"pixelcloak/capacity"
	"pixelcloak/hide"
	"pixelcloak/parallel"
	"pixelcloak/reveal"

	"github.com/alecthomas/kong"
)

var cli struct {
	Hide     hide.CLICmd     `cmd:"" help:"Hide a message inside an image"`
	Reveal   reveal.CLICmd   `cmd:"" help:"Recover a hidden message"`
	Capacity capacity.CLICmd `cmd:"" help:"Report how much text an image can hold"`

	Workers int `help:"Worker count for folder scans, 0 for one per CPU" default:"0"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("pixelcloak"),
		kong.Description("Hides text in image pixels at key-derived chaotic locations."),
		kong.UsageOnError(),
	)

	pool := parallel.Start(cli.Workers)
	if err := kctx.Run(kctx.Selected().Name, pool.Do, pool.Wait); err != nil {
		slog.Error("command failed", "cmd", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
