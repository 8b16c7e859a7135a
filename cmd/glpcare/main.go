package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

var CLI struct {
	Globals

	Version kong.VersionFlag

	Serve  ServeCmd  `cmd:"" help:"Run the HTTP server." default:"1"`
	Import ImportCmd `cmd:"" help:"Import exported spreadsheet rows."`
	Status StatusCmd `cmd:"" help:"Print the computed status of one patient."`
}

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name("glpcare"),
		kong.Description("GLP-1 patient self-tracking and clinic dashboard"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := ctx.Run(&CLI.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
