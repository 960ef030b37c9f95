package etl

import "fmt"

// number of championship rounds per season, used to enumerate rounds
// when no single round is requested
var seasonRaceCounts = map[int]int{
	2018: 21,
	2019: 21,
	2020: 17, // COVID shortened season
	2021: 22,
	2022: 22,
	2023: 22,
	2024: 24,
	2025: 24,
}

// Rounds returns the list of rounds to process. A requested round of 0
// means the whole season. Unknown seasons are rejected rather than
// guessed at.
func Rounds(season, round int) ([]int, error) {
	count, ok := seasonRaceCounts[season]
	if !ok {
		return nil, fmt.Errorf("season %d not supported", season)
	}
	if round != 0 {
		if round < 1 || round > count {
			return nil, fmt.Errorf("season %d has no round %d", season, round)
		}
		return []int{round}, nil
	}
	rounds := make([]int, count)
	for i := range rounds {
		rounds[i] = i + 1
	}
	return rounds, nil
}
