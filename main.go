package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"genre-dataset/dataset"
	"genre-dataset/utils"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println("Expected 'build' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		buildCmd := flag.NewFlagSet("build", flag.ExitOnError)
		labelsPath := buildCmd.String("labels", "", "Path to the tab-separated genre label file")
		midiRoot := buildCmd.String("midi", "", "Root directory of the MIDI file tree")
		outputPath := buildCmd.String("out", "data/matching.json", "Output dataset file (.json or .parquet)")
		workers := buildCmd.Int("workers", 0, "Worker count (0 = one per CPU)")
		cachePath := buildCmd.String("cache", "", "Optional bbolt feature cache file")
		quiet := buildCmd.Bool("quiet", false, "Suppress the progress bar")
		buildCmd.Parse(os.Args[2:])

		if *labelsPath == "" || *midiRoot == "" {
			log.Fatal("Usage: genre-dataset build -labels <file> -midi <dir> [-out <file>] [-workers N] [-cache <file>] [-quiet]\n\n" +
				"Expected layout:\n" +
				"  lmd_matched/\n" +
				"    TRAAAGR128F425B14B/\n" +
				"      b97c529ab9ef783a849b896816001748.mid\n" +
				"    TRAAAZF12903CCCF6B/\n" +
				"      05f1c62c0815082eb4a6c924c875e192.mid\n")
		}
		runBuild(*labelsPath, *midiRoot, *outputPath, *workers, *cachePath, *quiet)
	default:
		fmt.Println("Expected 'build' subcommand")
		os.Exit(1)
	}
}

func runBuild(labelsPath, midiRoot, outputPath string, workers int, cachePath string, quiet bool) {
	logger := utils.GetLogger()
	ctx := context.Background()

	if workers <= 0 {
		if env := os.Getenv("GENRE_DATASET_WORKERS"); env != "" {
			if n, err := strconv.Atoi(env); err == nil && n > 0 {
				workers = n
			}
		}
	}

	labels, err := dataset.LoadLabels(labelsPath)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load genre labels", slog.Any("error", xerrors.New(err)))
		os.Exit(1)
	}
	log.Printf("Loaded %d label records from %s", len(labels), labelsPath)

	files, err := dataset.BuildFileIndex(midiRoot, dataset.ParentDirIdentifier)
	if err != nil {
		logger.ErrorContext(ctx, "failed to index midi tree", slog.Any("error", xerrors.New(err)))
		os.Exit(1)
	}
	log.Printf("Indexed %d files under %s", len(files), midiRoot)

	rows := dataset.Match(labels, files)
	log.Printf("Matched %d rows", len(rows))

	mapping := dataset.BuildGenreMapping(rows)
	log.Printf("Found %d distinct genres", mapping.NumClasses())

	opts := dataset.ProcessOptions{Workers: workers}

	if cachePath != "" {
		cache, err := dataset.OpenCache(cachePath)
		if err != nil {
			// A broken cache degrades to plain extraction.
			logger.WarnContext(ctx, "feature cache unavailable", slog.Any("error", err))
		} else {
			defer cache.Close()
			opts.Cache = cache
		}
	}

	var progress *mpb.Progress
	if !quiet && len(rows) > 0 {
		progress = mpb.New(mpb.WithWidth(80))
		bar := progress.AddBar(int64(len(rows)),
			mpb.PrependDecorators(
				decor.Name("Extracting features: "),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done"),
			),
		)
		opts.Progress = func() { bar.Increment() }
	}

	processed := dataset.ProcessRows(rows, mapping, opts)
	if progress != nil {
		progress.Wait()
	}

	failed := 0
	for _, row := range processed {
		if row.Err == nil {
			continue
		}
		if errors.Is(row.Err, dataset.ErrUnknownGenre) {
			// Means the mapping and the rows went out of sync; not recoverable.
			logger.ErrorContext(ctx, "genre missing from mapping", slog.Any("error", xerrors.New(row.Err)))
			os.Exit(1)
		}
		failed++
	}

	written, err := dataset.WriteDataset(outputPath, processed)
	if err != nil {
		logger.ErrorContext(ctx, "failed to write dataset", slog.Any("error", xerrors.New(err)))
		os.Exit(1)
	}

	log.Printf("Wrote %d records to %s (%d extraction failures dropped)", written, outputPath, failed)

	counts := make(map[string]int)
	for _, row := range processed {
		if row.Err == nil {
			counts[row.Genre]++
		}
	}
	log.Println("Genre distribution:")
	for _, genre := range mapping.Genres() {
		log.Printf("  %-20s: %d records", genre, counts[genre])
	}
}
