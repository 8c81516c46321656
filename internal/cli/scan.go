package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/source"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "scan <source>",
		Short: "Print the folder and file records a source yields",
		Long: `Scan loads a source and prints its records as a JSON snapshot
({"root": ..., "files": [...]}), the same format "mindmap render -f json"
consumes as input. A summary goes to the log.`,
		Example: `  mindmap scan ./notes > notes.json
  mindmap scan index.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.openSource(args[0], refresh)
			if err != nil {
				return err
			}
			snap, err := c.runScan(cmd.Context(), src)
			if err != nil {
				return err
			}
			data, err := source.MarshalSnapshot(snap.Root, snap.Files)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore a cached snapshot")
	return cmd
}

// scanSummary counts what a snapshot contributes to the tree.
type scanSummary struct {
	Folders int
	Files   int
	Dropped []tree.File
}

func summarize(snap source.Snapshot) scanSummary {
	return scanSummary{
		Folders: source.CountFolders(snap.Root),
		Files:   len(snap.Files),
		Dropped: tree.Unattached(snap.Root, snap.Files),
	}
}

func (c *CLI) runScan(ctx context.Context, src source.Source) (source.Snapshot, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	folder, files, err := source.Load(ctx, src)
	if err != nil {
		return source.Snapshot{}, err
	}
	snap := source.Snapshot{Root: folder, Files: files}

	sum := summarize(snap)
	prog.done("Scanned", "source", src.Location(),
		"folders", sum.Folders, "files", sum.Files, "dropped", len(sum.Dropped))
	for _, f := range sum.Dropped {
		logger.Debug("file outside root folder", "path", f.FilePath)
	}
	if len(sum.Dropped) > 0 {
		logger.Warn("files outside the root folder will not appear in the map", "count", len(sum.Dropped))
	}
	return snap, nil
}
