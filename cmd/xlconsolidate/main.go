// Command xlconsolidate consolidates a folder of Excel workbooks into a
// single output workbook driven by a template, per the run subcommand's
// flags.
package main

import (
	"fmt"
	"os"

	"github.com/ozwilder/xlconsolidate/internal/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
