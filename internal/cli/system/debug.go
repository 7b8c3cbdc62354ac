package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/pomolit/internal/cli"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpRecord   *DebugDumpRecordCmd   `cmd:"" help:"Dump a day record as JSON."`
	DumpRecords  *DebugDumpRecordsCmd  `cmd:"" help:"Dump all day records as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpRecordCmd struct {
	Date string `arg:"" help:"Date of the record to dump (YYYY-MM-DD, 'today' or 'yesterday')."`
}

func (cmd *DebugDumpRecordCmd) Run(ctx *cli.Context) error {
	date, err := cli.ParseDate(cmd.Date, ctx.Now())
	if err != nil {
		return err
	}

	rec, found, err := ctx.Store.GetRecordByDate(date)
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}
	if !found {
		return fmt.Errorf("no record found for date: %s", date.Format("2006-01-02"))
	}
	return printJSON(rec)
}

type DebugDumpRecordsCmd struct{}

func (cmd *DebugDumpRecordsCmd) Run(ctx *cli.Context) error {
	records, err := ctx.Store.GetAllRecords()
	if err != nil {
		return fmt.Errorf("failed to get records: %w", err)
	}
	return printJSON(records)
}

type DebugDumpSettingsCmd struct {
	Raw bool `help:"Dump stored key/value pairs instead of effective settings."`
}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	if cmd.Raw {
		values, err := ctx.Store.GetSettingValues()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		return printJSON(values)
	}

	settings, err := ctx.Settings().Load()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(settings)
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
