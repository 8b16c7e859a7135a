package main

import (
	"os"
	"time"

	"github.com/terraincognita07/glpcare/internal/cli"
	"github.com/terraincognita07/glpcare/internal/logger"
)

type Globals struct {
	DBPath string `name:"db-path" help:"SQLite database path." env:"DB_PATH" default:"data/glpcare.db"`
	TZ     string `name:"tz" help:"Time zone for timestamps without an offset." env:"TZ" default:"UTC"`
	LogDir string `name:"log-dir" help:"Directory for rotated log files." env:"LOG_DIR"`
	Debug  bool   `help:"Enable debug logging." env:"DEBUG"`
}

func (globals *Globals) location() *time.Location {
	return mustLoadLocation(globals.TZ)
}

type ImportCmd struct {
	Kind        string `required:"" enum:"daily,weekly,patients" help:"Row kind: daily, weekly or patients."`
	File        string `required:"" type:"existingfile" help:"JSON array of exported rows."`
	PatientCode string `name:"patient-code" help:"Attach every row to this patient code."`
}

func (cmd *ImportCmd) Run(globals *Globals) error {
	if err := logger.Init(logger.Config{Debug: globals.Debug, LogDir: globals.LogDir}); err != nil {
		return err
	}
	_, err := cli.RunImportCommand(cli.ImportOptions{
		DBPath:      globals.DBPath,
		Kind:        cmd.Kind,
		File:        cmd.File,
		PatientCode: cmd.PatientCode,
		Location:    globals.location(),
	}, os.Stdout)
	return err
}

type StatusCmd struct {
	PatientCode string `name:"patient-code" required:"" help:"Patient code, e.g. C001-4827."`
}

func (cmd *StatusCmd) Run(globals *Globals) error {
	if err := logger.Init(logger.Config{Debug: globals.Debug, LogDir: globals.LogDir, Quiet: true}); err != nil {
		return err
	}
	time.Local = globals.location()
	return cli.RunStatusCommand(globals.DBPath, cmd.PatientCode, time.Now(), os.Stdout)
}
