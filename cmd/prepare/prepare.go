package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/scotuslab/leanings/pkg/features"
	"github.com/scotuslab/leanings/pkg/scdb"
	"github.com/scotuslab/leanings/pkg/tables"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
	"github.com/willbeason/bondsmith"
	"github.com/willbeason/bondsmith/fileio"
	"golang.org/x/term"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "prepare VOTES SCORES OUT_DIR",
	Short:   "cleans and joins the vote and ideology tables and builds the feature matrix",
	Args:    cobra.ExactArgs(3),
	Version: "0.1.0",
	RunE:    runE,
}

var csvPattern = regexp.MustCompile(`\.csv$`)

func runE(_ *cobra.Command, args []string) error {
	votesPath := args[0]
	scoresPath := args[1]
	outDir := args[2]

	err := os.MkdirAll(outDir, os.ModePerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return fmt.Errorf("getting terminal size: %w", err)
	}
	progress := mpb.New(mpb.WithWidth(width))

	votes, stats, err := readVotes(progress, votesPath)
	if err != nil {
		return fmt.Errorf("loading vote table: %w", err)
	}
	fmt.Printf("%d vote rows; dropped %d without a direction, %d without an issue area\n",
		stats.Rows, stats.DroppedDirection, stats.DroppedIssueArea)

	scores, err := readScores(progress, scoresPath)
	if err != nil {
		return fmt.Errorf("loading score table: %w", err)
	}
	fmt.Println(len(scores), "ideology scores")

	joined := scdb.Join(votes, scores)
	fmt.Println(len(joined), "joined rows")

	matrix := features.Build(joined)
	fmt.Println(len(matrix.Keys), "feature rows")

	joinedPath := filepath.Join(outDir, tables.JoinedVotesName+tables.ParquetExt)
	err = scdb.WriteJoinedParquet(joinedPath, joined)
	if err != nil {
		return fmt.Errorf("writing joined table: %w", err)
	}

	featuresPath := filepath.Join(outDir, tables.FeaturesName+tables.ParquetExt)
	err = features.WriteParquet(featuresPath, matrix)
	if err != nil {
		return fmt.Errorf("writing feature matrix: %w", err)
	}

	return nil
}

func readVotes(progress *mpb.Progress, path string) ([]scdb.VoteRecord, scdb.VoteStats, error) {
	reader, size, err := toReader(path)
	if err != nil {
		return nil, scdb.VoteStats{}, err
	}

	counter := bondsmith.NewCountReader(reader)
	bar := progress.AddBar(size,
		mpb.AppendDecorators(decor.AverageETA(decor.ET_STYLE_GO)),
		mpb.PrependDecorators(decor.Name(filepath.Base(path))),
		mpb.BarRemoveOnComplete(),
	)

	lastSeen := 0
	start := time.Now()
	votes, stats, err := scdb.ReadVotes(counter, func(int) {
		seen := int(counter.Count())
		bar.IncrBy(seen-lastSeen, time.Since(start))
		lastSeen = seen
	})
	bar.IncrBy(int(size)-lastSeen, time.Since(start))
	return votes, stats, err
}

func readScores(progress *mpb.Progress, path string) ([]scdb.IdeologyScore, error) {
	reader, size, err := toReader(path)
	if err != nil {
		return nil, err
	}

	counter := bondsmith.NewCountReader(reader)
	bar := progress.AddBar(size,
		mpb.AppendDecorators(decor.AverageETA(decor.ET_STYLE_GO)),
		mpb.PrependDecorators(decor.Name(filepath.Base(path))),
		mpb.BarRemoveOnComplete(),
	)

	lastSeen := 0
	start := time.Now()
	scores, err := scdb.ReadScores(counter, func(int) {
		seen := int(counter.Count())
		bar.IncrBy(seen-lastSeen, time.Since(start))
		lastSeen = seen
	})
	bar.IncrBy(int(size)-lastSeen, time.Since(start))
	return scores, err
}

// toReader accepts either a single CSV file or a directory of CSV shards and
// returns a reader over all of them plus the total byte size.
func toReader(inPath string) (io.Reader, int64, error) {
	stat, err := os.Stat(inPath)
	if err != nil {
		return nil, 0, err
	}

	var inPaths []string
	var size int64
	if stat.IsDir() {
		entries, err := os.ReadDir(inPath)
		if err != nil {
			return nil, 0, err
		}

		for _, entry := range entries {
			if !csvPattern.MatchString(entry.Name()) {
				continue
			}

			entryPath := filepath.Join(inPath, entry.Name())
			info, err := entry.Info()
			if err != nil {
				return nil, 0, err
			}
			size += info.Size()
			inPaths = append(inPaths, entryPath)
		}
		if len(inPaths) == 0 {
			return nil, 0, fmt.Errorf("no .csv files in %q", inPath)
		}
	} else {
		inPaths = append(inPaths, inPath)
		size = stat.Size()
	}

	return fileio.NewMultiFileReader(inPaths), size, nil
}
