package dataset

import (
	"genre-dataset/midi"
)

// NumFeatures is the length of every feature vector.
const NumFeatures = 5

// Normalization constants. These are fixed dataset-wide calibration
// values, not statistics recomputed from the data; changing them breaks
// output compatibility with previously built datasets. Real inputs can
// land outside [-1, 1].
const (
	tempoCenter      = 150.0
	tempoScale       = 300.0
	sigChangesCenter = 2.0
	sigChangesScale  = 10.0
	resolutionCenter = 260.0
	resolutionScale  = 400.0
	timeSigCenter    = 3.0
	timeSigScale     = 8.0
)

// ExtractRawFeatures opens the MIDI file at path in strict mode and
// computes the five raw features, in order: estimated tempo, number of
// time-signature changes, resolution, and the numerator and denominator
// of the first time-signature change (4 and 4 when there is none). Any
// decode anomaly is returned as an error; callers treat it as a
// row-local failure.
func ExtractRawFeatures(path string) ([]float64, error) {
	info, err := midi.ReadInfo(path, midi.ReadOptions{Strict: true})
	if err != nil {
		return nil, err
	}

	tsNum, tsDen := 4.0, 4.0
	if len(info.TimeSignatures) > 0 {
		tsNum = float64(info.TimeSignatures[0].Numerator)
		tsDen = float64(info.TimeSignatures[0].Denominator)
	}

	return []float64{
		info.Tempo,
		float64(len(info.TimeSignatures)),
		float64(info.Resolution),
		tsNum,
		tsDen,
	}, nil
}

// NormalizeFeatures applies the fixed affine rescale to a raw feature
// vector. Pure and deterministic: identical input gives bit-identical
// output.
func NormalizeFeatures(raw []float64) []float64 {
	return []float64{
		(raw[0] - tempoCenter) / tempoScale,
		(raw[1] - sigChangesCenter) / sigChangesScale,
		(raw[2] - resolutionCenter) / resolutionScale,
		(raw[3] - timeSigCenter) / timeSigScale,
		(raw[4] - timeSigCenter) / timeSigScale,
	}
}

// ExtractFeatures is the extraction entry point used by the row
// processor: raw features followed by normalization.
func ExtractFeatures(path string) ([]float64, error) {
	raw, err := ExtractRawFeatures(path)
	if err != nil {
		return nil, err
	}
	return NormalizeFeatures(raw), nil
}
