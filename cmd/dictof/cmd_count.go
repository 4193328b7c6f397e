package main

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/llxisdsh/dictof"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var cmdCount = &cobra.Command{
	Use:   "count [flags] FILE...",
	Short: "Count words across files",
	Long: `
The "count" command reads the given files concurrently, counts every
whitespace-separated word in a shared table and prints the most frequent
words followed by the table statistics.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if any file
could not be read.
`,
	Args:              cobra.MinimumNArgs(1),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCount(cmd.Context(), countOptions, args, cmd.OutOrStdout())
	},
}

// CountOptions bundles all options for the count command.
type CountOptions struct {
	Top int
}

var countOptions CountOptions

func init() {
	cmdRoot.AddCommand(cmdCount)

	f := cmdCount.Flags()
	f.IntVar(&countOptions.Top, "top", 10, "print the `n` most frequent words")
}

type wordCount struct {
	word  string
	count int
}

func runCount(ctx context.Context, opts CountOptions, files []string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	words := dictof.NewSyncDictOf[dictof.String, int](
		dictof.WithLogger(log.WithField("cmd", "count")),
	)

	wg, wgCtx := errgroup.WithContext(ctx)
	for _, name := range files {
		wg.Go(func() error { return countFile(wgCtx, words, name) })
	}
	if err := wg.Wait(); err != nil {
		return err
	}

	counts := make([]wordCount, 0, words.Size())
	for w, n := range words.All() {
		counts = append(counts, wordCount{word: string(w), count: n})
	}
	slices.SortFunc(counts, func(a, b wordCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.word, b.word)
	})

	for _, wc := range counts[:min(opts.Top, len(counts))] {
		if _, err := fmt.Fprintf(out, "%8d %s\n", wc.count, wc.word); err != nil {
			return err
		}
	}
	return printStats(out, words.Stats(), globalOptions.JSON)
}

func countFile(ctx context.Context, words *dictof.SyncDictOf[dictof.String, int], name string) error {
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanWords)
	n := 0
	for sc.Scan() {
		if n%1024 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		_, err := words.Compute(dictof.String(sc.Text()), func(old int, _ bool) int {
			return old + 1
		})
		if err != nil {
			return err
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return errors.Wrapf(err, "read %v", name)
	}
	log.Debugf("counted %d words in %v", n, name)
	return nil
}
