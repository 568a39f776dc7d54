package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ozwilder/xlconsolidate/internal/config"
	"github.com/ozwilder/xlconsolidate/internal/engine"
	"github.com/ozwilder/xlconsolidate/internal/logging"
)

// consoleProgress prints onProgress events as a single overwritten status
// line in the terminal.
type consoleProgress struct{}

func (consoleProgress) OnProgress(percent int, message string) {
	fmt.Fprintf(os.Stderr, "\r[%3d%%] %-40s", percent, message)
	if percent >= 100 {
		fmt.Fprintln(os.Stderr)
	}
}

func newRunCommand(g *Globals) *cobra.Command {
	var req config.Request

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a consolidation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.EnvPath != "" {
				config.LoadEnv(g.EnvPath)
			}
			if g.ConfigPath != "" {
				file, err := config.LoadFile(g.ConfigPath)
				if err != nil {
					return err
				}
				req = mergeFileDefaults(req, file.Request)
			}
			req = mergeFileDefaults(req, config.EnvDefaults())
			req.Options = config.ApplyDefaults(req.Options)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			log := logging.ComponentLogger(g.Logger, "engine")
			result, err := engine.Consolidate(ctx, toEngineRequest(req), consoleProgress{}, logging.EngineAdapter{Logger: log})
			if err != nil {
				return err
			}

			fmt.Printf("wrote %s (%d files processed, %d skipped)\n", result.OutputPath, result.FilesProcessed, len(result.FilesSkipped))
			for _, sf := range result.FilesSkipped {
				fmt.Printf("  skipped %s: %s\n", sf.Path, sf.ReasonCode)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.TemplatePath, "template", "", "path to the template workbook (required)")
	flags.StringVar(&req.SourceFolder, "source-folder", "", "folder of source workbooks to consolidate (required)")
	flags.StringVar(&req.OutputFolder, "output-folder", "", "folder to write the consolidated workbook into (required)")
	flags.BoolVar(&req.Options.ExcludeZeroPercent, "exclude-zero-percent", false, "exclude zero values from percentage-mean denominators")
	flags.BoolVar(&req.Options.StrictStructure, "strict-structure", false, "fail fast on source/template structure mismatch")
	overwrite := true
	flags.BoolVar(&overwrite, "overwrite-output-formulas", true, "overwrite template formulas with aggregated values")
	req.Options.OverwriteOutputFormulas = &overwrite
	flags.IntVar(&req.Options.Workers, "workers", 4, "number of source files to process concurrently")
	flags.BoolVar(&req.Options.IncludeXLS, "include-xls", false, "include legacy .xls sources (recorded as skipped: excelize cannot read them)")

	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("source-folder")
	_ = cmd.MarkFlagRequired("output-folder")

	return cmd
}

func mergeFileDefaults(flagReq, fileReq config.Request) config.Request {
	if flagReq.TemplatePath == "" {
		flagReq.TemplatePath = fileReq.TemplatePath
	}
	if flagReq.SourceFolder == "" {
		flagReq.SourceFolder = fileReq.SourceFolder
	}
	if flagReq.OutputFolder == "" {
		flagReq.OutputFolder = fileReq.OutputFolder
	}
	return flagReq
}

func toEngineRequest(req config.Request) engine.Request {
	return engine.Request{
		TemplatePath: req.TemplatePath,
		SourceFolder: req.SourceFolder,
		OutputFolder: req.OutputFolder,
		Options: engine.Options{
			ExcludeZeroPercent:      req.Options.ExcludeZeroPercent,
			StrictStructure:         req.Options.StrictStructure,
			OverwriteOutputFormulas: req.Options.OverwriteEnabled(),
			Workers:                 req.Options.Workers,
			IncludeXLS:              req.Options.IncludeXLS,
		},
	}
}
