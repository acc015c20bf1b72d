package main

import (
	"flag"
	"fmt"
	"log"

	"genre-dataset/dataset"
	"genre-dataset/midi"
)

// Prints the timing facts and feature vector for a single MIDI file,
// useful when a file keeps getting dropped from the dataset.
func main() {
	file := flag.String("file", "", "MIDI file to inspect")
	lenient := flag.Bool("lenient", false, "Tolerate files the pipeline would reject")
	flag.Parse()

	if *file == "" {
		log.Fatal("Usage: go run ./cmd/inspect_midi -file <path> [-lenient]")
	}

	info, err := midi.ReadInfo(*file, midi.ReadOptions{Strict: !*lenient})
	if err != nil {
		log.Fatalf("decode failed (file would be dropped from the dataset): %v", err)
	}

	fmt.Printf("tempo estimate:     %.3f BPM\n", info.Tempo)
	fmt.Printf("resolution:         %d ticks/quarter\n", info.Resolution)
	fmt.Printf("time sig changes:   %d\n", len(info.TimeSignatures))
	for i, ts := range info.TimeSignatures {
		fmt.Printf("  [%d] %d/%d\n", i, ts.Numerator, ts.Denominator)
	}

	raw, err := dataset.ExtractRawFeatures(*file)
	if err != nil {
		log.Fatalf("feature extraction failed: %v", err)
	}
	fmt.Printf("raw features:       %v\n", raw)
	fmt.Printf("normalized:         %v\n", dataset.NormalizeFeatures(raw))
}
