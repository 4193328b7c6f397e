package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/llxisdsh/dictof"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GlobalOptions hold options shared by all commands.
type GlobalOptions struct {
	LogLevel string
	JSON     bool
}

var globalOptions GlobalOptions

// cmdRoot is the base command when no other command has been specified.
var cmdRoot = &cobra.Command{
	Use:   "dictof",
	Short: "Exercise the dictof hash table",
	Long: `
dictof drives the chained, schedule-grown hash table from the command line:
counting words across files and checking growth over many insertions.
`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(globalOptions.LogLevel)
		if err != nil {
			return errors.Wrap(err, "--log-level")
		}
		log.SetLevel(level)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	f := cmdRoot.PersistentFlags()
	f.StringVar(&globalOptions.LogLevel, "log-level", "info", "log `level` (trace, debug, info, warn, error)")
	f.BoolVar(&globalOptions.JSON, "json", false, "print table statistics as JSON")
}

func printStats(out io.Writer, stats *dictof.DictStats, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(stats), "encode stats")
	}
	_, err := fmt.Fprint(out, stats.ToString())
	return err
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
