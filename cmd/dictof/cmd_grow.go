package main

import (
	"fmt"
	"io"

	"github.com/llxisdsh/dictof"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cmdGrow = &cobra.Command{
	Use:   "grow [flags]",
	Short: "Insert integer keys and verify the table across every resize",
	Long: `
The "grow" command inserts the integer keys 0..n-1, and after every resize
checks that each key inserted so far is still stored with its value.

EXIT STATUS
===========

Exit status is 0 if every check passed, and non-zero otherwise.
`,
	Args:              cobra.NoArgs,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGrow(growOptions, cmd.OutOrStdout())
	},
}

// GrowOptions bundles all options for the grow command.
type GrowOptions struct {
	N       int
	Presize int
}

var growOptions GrowOptions

func init() {
	cmdRoot.AddCommand(cmdGrow)

	f := cmdGrow.Flags()
	f.IntVar(&growOptions.N, "n", 100000, "insert `n` keys")
	f.IntVar(&growOptions.Presize, "presize", 0, "size hint for the initial table")
}

func runGrow(opts GrowOptions, out io.Writer) error {
	if opts.N < 0 {
		return errors.Errorf("invalid key count %d", opts.N)
	}
	d := dictof.NewDictOf[dictof.Int, int](
		dictof.WithPresize(opts.Presize),
		dictof.WithLogger(log.WithField("cmd", "grow")),
	)

	buckets := d.BucketCount()
	for i := 0; i < opts.N; i++ {
		if err := d.Add(dictof.Int(i), 2*i); err != nil {
			return errors.Wrapf(err, "insert %d", i)
		}
		if d.BucketCount() == buckets {
			continue
		}
		log.Infof("resized %d -> %d buckets at %d entries", buckets, d.BucketCount(), d.Size())
		buckets = d.BucketCount()
		if err := verifyPrefix(d, i+1); err != nil {
			return err
		}
	}
	if err := verifyPrefix(d, opts.N); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(out, "inserted %d keys\n", d.Size()); err != nil {
		return err
	}
	return printStats(out, d.Stats(), globalOptions.JSON)
}

// verifyPrefix checks that keys 0..n-1 are stored with value 2*key.
func verifyPrefix(d *dictof.DictOf[dictof.Int, int], n int) error {
	if d.Size() != n {
		return errors.Errorf("size %d, want %d", d.Size(), n)
	}
	for j := 0; j < n; j++ {
		v, err := d.Get(dictof.Int(j))
		if err != nil {
			return err
		}
		if v != 2*j {
			return errors.Errorf("key %d: value %d, want %d", j, v, 2*j)
		}
	}
	return nil
}
