package basedata

import (
	"github.com/shopspring/decimal"

	"github.com/f1muse/f1-etl-go/pkg/model"
)

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

// SampleRaceData returns a two driver, three lap race. Driver VER pits
// after lap 1 and changes compound, HAM runs through on a single stint.
func SampleRaceData() *model.RaceData {
	return &model.RaceData{
		Season:        2024,
		Round:         5,
		TrackID:       "shanghai",
		SourceVersion: "3.3.0",
		Drivers: []model.DriverInfo{
			{
				Key:          "1",
				Abbreviation: "VER",
				FirstName:    "Max",
				LastName:     "Verstappen",
				TeamName:     "Red Bull Racing",
			},
			{
				Key:          "44",
				Abbreviation: "HAM",
				FirstName:    "Lewis",
				LastName:     "Hamilton",
				TeamName:     "Mercedes",
			},
		},
		Laps: []model.RawLap{
			{
				DriverKey: "1", LapNumber: 1, LapTime: floatPtr(95.321),
				PitIn: true, Compound: "SOFT", TyreAge: intPtr(1),
				TrackStatus: "1", IsAccurate: true, GapToLeader: floatPtr(0),
			},
			{
				DriverKey: "1", LapNumber: 2, LapTime: floatPtr(112.907),
				PitOut: true, Compound: "HARD", TyreAge: intPtr(1),
				TrackStatus: "1", IsAccurate: true, GapToLeader: floatPtr(14.2),
			},
			{
				DriverKey: "1", LapNumber: 3, LapTime: floatPtr(94.115),
				Compound: "HARD", TyreAge: intPtr(2),
				TrackStatus: "1", IsAccurate: true, GapToLeader: floatPtr(13.8),
			},
			{
				DriverKey: "44", LapNumber: 1, LapTime: floatPtr(95.874),
				Compound: "MEDIUM", TyreAge: intPtr(1),
				TrackStatus: "1", IsAccurate: true, GapToLeader: floatPtr(0.553),
			},
			{
				DriverKey: "44", LapNumber: 2, LapTime: floatPtr(95.402),
				Compound: "MEDIUM", TyreAge: intPtr(2),
				TrackStatus: "1", IsAccurate: true, GapToLeader: floatPtr(0),
			},
			{
				DriverKey: "44", LapNumber: 3, LapTime: floatPtr(95.688),
				Compound: "MEDIUM", TyreAge: intPtr(3),
				TrackStatus: "1", IsAccurate: true, GapToLeader: floatPtr(1.2),
			},
		},
	}
}

// SampleNormalizedLap returns a single persisted lap for repository tests.
func SampleNormalizedLap() model.NormalizedLap {
	return model.NormalizedLap{
		Season:         2024,
		Round:          5,
		TrackID:        "shanghai",
		DriverID:       "max_verstappen",
		SessionType:    model.SessionRace,
		LapNumber:      1,
		StintID:        1,
		StintLapIndex:  1,
		LapTimeSeconds: decimal.NewFromFloat(95.321),
		IsValidLap:     true,
		CleanAirFlag:   true,
		Compound:       "SOFT",
		TyreAgeLaps:    intPtr(1),
	}
}

// SampleQualifyingData returns a minimal qualifying session for two drivers.
func SampleQualifyingData() *model.QualifyingData {
	return &model.QualifyingData{
		Season:        2024,
		Round:         5,
		TrackID:       "shanghai",
		SourceVersion: "3.3.0",
		Drivers: []model.DriverInfo{
			{
				Key:          "1",
				Abbreviation: "VER",
				FirstName:    "Max",
				LastName:     "Verstappen",
				TeamName:     "Red Bull Racing",
			},
			{
				Key:          "44",
				Abbreviation: "HAM",
				FirstName:    "Lewis",
				LastName:     "Hamilton",
				TeamName:     "Mercedes",
			},
		},
		Entries: []model.RawQualifyingEntry{
			{
				DriverKey: "1", TeamKey: "red_bull_racing", Position: intPtr(1),
				Q1: floatPtr(91.2), Q2: floatPtr(90.8), Q3: floatPtr(90.1),
			},
			{
				DriverKey: "44", TeamKey: "mercedes",
				Position: intPtr(11), GridPosition: intPtr(14),
				Q1: floatPtr(91.9),
			},
		},
		Laps: []model.RawLap{
			{
				DriverKey: "1", LapNumber: 1, LapTime: floatPtr(91.2),
				Sector1: floatPtr(28.4), Sector2: floatPtr(31.5), Sector3: floatPtr(31.3),
				IsPersonalBest: true,
				Compound: "SOFT", TyreAge: intPtr(1), IsAccurate: true,
			},
			{
				DriverKey: "44", LapNumber: 1, LapTime: floatPtr(91.9),
				Sector1: floatPtr(28.7), Sector2: floatPtr(31.7), Sector3: floatPtr(31.5),
				Deleted: true,
				Compound: "SOFT", TyreAge: intPtr(1), IsAccurate: true,
			},
		},
	}
}
