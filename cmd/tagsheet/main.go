// Command tagsheet tags a note column of an xlsx workbook against a keyword
// file, without running the dashboard server.
//
// Usage:
//
//	tagsheet --keywords keywords.txt --column SupportNote in.xlsx out.xlsx
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"csdash/internal/reports"
	"csdash/internal/sheet"
	"csdash/internal/tagger"
)

var (
	keywordsFile string
	noteColumn   string
	sheetName    string
	yesLabel     string
	noLabel      string
	showHits     bool
)

var rootCmd = &cobra.Command{
	Use:   "tagsheet [flags] IN.xlsx OUT.xlsx",
	Short: "Tag spreadsheet notes with matching keywords",
	Long: `Reads the first sheet of IN.xlsx, matches every value of the note column
against the keyword file and writes the sheet with Keywords and
MatchingKeyword columns appended to OUT.xlsx.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTag,
}

func init() {
	rootCmd.Flags().StringVarP(&keywordsFile, "keywords", "k", "keywords.txt", "newline-delimited keyword file")
	rootCmd.Flags().StringVarP(&noteColumn, "column", "c", "SupportNote", "column holding the notes to tag")
	rootCmd.Flags().StringVar(&sheetName, "sheet-name", "Analyseret", "name of the output sheet")
	rootCmd.Flags().StringVar(&yesLabel, "yes", "Ja", "verdict label for matching rows")
	rootCmd.Flags().StringVar(&noLabel, "no", "Nej", "verdict label for other rows")
	rootCmd.Flags().BoolVar(&showHits, "hits", false, "print per-keyword hit counts")
}

func runTag(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	vocab, err := tagger.LoadKeywords(tagger.FileSource(keywordsFile))
	if err != nil {
		return err
	}

	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	t, err := sheet.Read(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}

	summary, err := reports.TagSheet(t, noteColumn, vocab, yesLabel, noLabel)
	if err != nil {
		var mc *reports.MissingColumnsError
		if errors.As(err, &mc) {
			return fmt.Errorf("%s has no column %q", in, noteColumn)
		}
		return err
	}

	data, err := sheet.Write(sheet.Sheet{Name: sheetName, Table: t})
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}

	slog.Info("tagged workbook",
		"in", in,
		"out", out,
		"keywords", len(vocab),
		"rows", summary.RowsIn,
		"matched", summary.Matched,
	)

	if showHits {
		keys := make([]string, 0, len(summary.Hits))
		for kw := range summary.Hits {
			keys = append(keys, kw)
		}
		sort.Slice(keys, func(i, j int) bool {
			if summary.Hits[keys[i]] != summary.Hits[keys[j]] {
				return summary.Hits[keys[i]] > summary.Hits[keys[j]]
			}
			return keys[i] < keys[j]
		})
		w := cmd.OutOrStdout()
		for _, kw := range keys {
			fmt.Fprintf(w, "%6d  %s\n", summary.Hits[kw], kw)
		}
	}
	return nil
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
