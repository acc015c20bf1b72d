// Package midi decodes Standard MIDI Files into the handful of timing
// facts the dataset pipeline consumes: an estimated tempo, the list of
// time-signature changes and the tick resolution. Everything else in the
// file is ignored.
package midi

import (
	"errors"
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// TimeSignature is a single time-signature change, in file order.
type TimeSignature struct {
	Numerator   int
	Denominator int
}

// Info holds the decoded timing facts for one file.
type Info struct {
	Tempo          float64 // estimated beats per minute
	Resolution     int     // ticks per quarter note
	TimeSignatures []TimeSignature
}

// ReadOptions controls how defensively a file is decoded. Strict mode
// escalates structural anomalies that a permissive reader would shrug at
// (no tracks, SMPTE timing, too few notes to estimate a tempo) into
// errors, so that suspect files are excluded instead of mis-extracted.
// The flag is per call; callers running in parallel stay isolated.
type ReadOptions struct {
	Strict bool
}

const defaultBPM = 120.0

// ReadInfo decodes the file at path and derives its timing facts.
func ReadInfo(path string, opts ReadOptions) (*Info, error) {
	data, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read smf %s: %w", path, err)
	}

	ticks, ok := data.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported time format %v", path, data.TimeFormat)
	}
	resolution := int(ticks.Ticks4th())
	if resolution == 0 {
		return nil, fmt.Errorf("%s: zero tick resolution", path)
	}
	if opts.Strict && len(data.Tracks) == 0 {
		return nil, fmt.Errorf("%s: no tracks", path)
	}

	var (
		sigs   []sigChange
		tempos []tempoChange
		onsets []int64
	)
	for _, track := range data.Tracks {
		var abs int64
		for _, ev := range track {
			abs += int64(ev.Delta)

			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) {
				tempos = append(tempos, tempoChange{tick: abs, bpm: bpm})
				continue
			}

			var num, denom, clocks, dsq uint8
			if ev.Message.GetMetaTimeSig(&num, &denom, &clocks, &dsq) {
				sigs = append(sigs, sigChange{
					tick: abs,
					sig:  TimeSignature{Numerator: int(num), Denominator: int(denom)},
				})
				continue
			}

			var ch, key, vel uint8
			if ev.Message.GetNoteStart(&ch, &key, &vel) {
				onsets = append(onsets, abs)
			}
		}
	}

	sort.Slice(tempos, func(i, j int) bool { return tempos[i].tick < tempos[j].tick })
	sort.SliceStable(sigs, func(i, j int) bool { return sigs[i].tick < sigs[j].tick })
	sort.Slice(onsets, func(i, j int) bool { return onsets[i] < onsets[j] })

	tempo, err := estimateTempo(onsets, tempos, resolution)
	if err != nil {
		if opts.Strict {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		// Lenient readers settle for the notated tempo.
		tempo = defaultBPM
		if len(tempos) > 0 && tempos[0].bpm > 0 {
			tempo = tempos[0].bpm
		}
	}

	info := &Info{
		Tempo:      tempo,
		Resolution: resolution,
	}
	for _, s := range sigs {
		info.TimeSignatures = append(info.TimeSignatures, s.sig)
	}
	return info, nil
}

type tempoChange struct {
	tick int64
	bpm  float64
}

type sigChange struct {
	tick int64
	sig  TimeSignature
}

// estimateTempo derives a global BPM from note onsets: inter-onset
// intervals are folded up into a plausible beat-period range and the mean
// interval is inverted. Files with fewer than two distinct onsets carry
// no usable pulse and are rejected.
func estimateTempo(onsets []int64, tempos []tempoChange, resolution int) (float64, error) {
	if len(onsets) < 2 {
		return 0, errors.New("fewer than two note onsets, cannot estimate tempo")
	}

	times := make([]float64, len(onsets))
	for i, tick := range onsets {
		times[i] = ticksToSeconds(tick, tempos, resolution)
	}

	var (
		sum   float64
		count int
	)
	for i := 1; i < len(times); i++ {
		ioi := times[i] - times[i-1]
		if ioi <= 0 {
			continue
		}
		for ioi < 0.2 {
			ioi *= 2
		}
		sum += ioi
		count++
	}
	if count == 0 {
		return 0, errors.New("no positive inter-onset intervals")
	}

	return 60.0 / (sum / float64(count)), nil
}

// ticksToSeconds walks the tempo map up to the given absolute tick.
// Files with no set-tempo event run at the MIDI default of 120 BPM.
func ticksToSeconds(tick int64, tempos []tempoChange, resolution int) float64 {
	bpm := defaultBPM
	var (
		seconds  float64
		prevTick int64
	)
	for _, tc := range tempos {
		if tc.tick >= tick {
			break
		}
		seconds += float64(tc.tick-prevTick) * 60.0 / (bpm * float64(resolution))
		prevTick = tc.tick
		if tc.bpm > 0 {
			bpm = tc.bpm
		}
	}
	seconds += float64(tick-prevTick) * 60.0 / (bpm * float64(resolution))
	return seconds
}
