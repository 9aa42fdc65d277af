package cmd

import (
	"fmt"

	"github.com/nickleo9/scraper/internal/history"
)

type HistoryCmd struct {
	Diff   HistoryDiffCmd   `cmd:"" help:"Write unseen records (A-B) to JSON."`
	Update HistoryUpdateCmd `cmd:"" help:"Merge new records into seen history JSON."`
}

type HistoryDiffCmd struct {
	New   string `name:"new" required:"" help:"Path to new records JSON file (A)."`
	Seen  string `name:"seen" required:"" help:"Path to seen records JSON file (B). Missing file is treated as empty."`
	Out   string `name:"out" required:"" help:"Output path for unseen records JSON file (C)."`
	Stats bool   `name:"stats" help:"Print comparison stats."`
}

type HistoryUpdateCmd struct {
	Seen  string `name:"seen" required:"" help:"Path to seen records JSON file (B). Missing file is treated as empty."`
	Input string `name:"input" required:"" help:"Path to input records JSON file to merge into seen history."`
	Out   string `name:"out" required:"" help:"Output path for updated seen records JSON."`
	Stats bool   `name:"stats" help:"Print merge stats."`
}

func (c *HistoryDiffCmd) Run(ctx *Context) error {
	newRecords, err := history.ReadRecords(c.New)
	if err != nil {
		return fmt.Errorf("read --new: %w", err)
	}
	seenRecords, err := history.ReadRecordsAllowMissing(c.Seen)
	if err != nil {
		return fmt.Errorf("read --seen: %w", err)
	}

	unseen, stats := history.Diff(newRecords, seenRecords)
	if err := history.WriteRecords(c.Out, unseen); err != nil {
		return fmt.Errorf("write --out: %w", err)
	}

	if c.Stats {
		_, err := fmt.Fprintf(
			ctx.Out,
			"total_new=%d total_seen=%d invalid_skipped=%d unseen_emitted=%d\n",
			stats.TotalNew,
			stats.TotalSeen,
			stats.InvalidSkipped(),
			stats.Unseen,
		)
		return err
	}

	return nil
}

func (c *HistoryUpdateCmd) Run(ctx *Context) error {
	seenRecords, err := history.ReadRecordsAllowMissing(c.Seen)
	if err != nil {
		return fmt.Errorf("read --seen: %w", err)
	}
	inputRecords, err := history.ReadRecords(c.Input)
	if err != nil {
		return fmt.Errorf("read --input: %w", err)
	}

	merged, stats := history.Merge(seenRecords, inputRecords)
	if err := history.WriteRecords(c.Out, merged); err != nil {
		return fmt.Errorf("write --out: %w", err)
	}

	if c.Stats {
		_, err := fmt.Fprintf(
			ctx.Out,
			"total_seen=%d total_input=%d invalid_skipped=%d added=%d total_out=%d\n",
			stats.TotalSeen,
			stats.TotalInput,
			stats.InvalidSkipped(),
			stats.Added,
			stats.TotalOut,
		)
		return err
	}

	return nil
}
