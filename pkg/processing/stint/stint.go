// Package stint assigns stint ids to race laps.
//
// A new stint begins when the compound changes or a pit stop happened:
// the previous lap carried a pit-in marker or the current lap carries a
// pit-out marker. Lap 1 always opens stint 1. The input must not contain
// laps without compound data; the fail-closed filter runs before this
// stage.
package stint

import (
	"sort"

	"github.com/f1muse/f1-etl-go/pkg/model"
)

// Segment annotates all laps of one race with stint id and stint local
// lap index. The input is not modified; the result is ordered by driver
// key, then lap number.
func Segment(laps []model.RawLap) []model.AnnotatedLap {
	out := make([]model.AnnotatedLap, 0, len(laps))
	for _, l := range laps {
		out = append(out, model.AnnotatedLap{RawLap: l})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DriverKey != out[j].DriverKey {
			return out[i].DriverKey < out[j].DriverKey
		}
		return out[i].LapNumber < out[j].LapNumber
	})

	currentDriver := ""
	currentStint := 0
	stintLap := 0
	prevCompound := ""
	prevPitIn := false

	for i := range out {
		lap := &out[i]
		if lap.DriverKey != currentDriver {
			currentDriver = lap.DriverKey
			currentStint = 1
			stintLap = 1
			prevCompound = ""
			prevPitIn = false
		}

		pitStopOccurred := prevPitIn || lap.PitOut
		if prevCompound != "" && (lap.Compound != prevCompound || pitStopOccurred) {
			currentStint++
			stintLap = 1
		}

		lap.StintID = currentStint
		lap.StintLapIndex = stintLap

		prevCompound = lap.Compound
		prevPitIn = lap.PitIn
		stintLap++
	}
	return out
}
