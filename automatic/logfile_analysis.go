package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// AnalyzeLogFile summarises a game result CSV written by
// StartCompVCompGames.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	summary, err := ReadGameLog(file)
	if err != nil {
		return "", err
	}
	summary.Decisions = nil
	var sb strings.Builder
	if err := summary.WriteReport(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ReadGameLog rebuilds a Summary, without search statistics, from a game
// result CSV.
func ReadGameLog(r io.Reader) (*Summary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	summary := NewSummary()
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == "gameID" {
			// header
			continue
		}
		var nums [3]int
		for i := range nums {
			nums[i], err = strconv.Atoi(record[i+1])
			if err != nil {
				return nil, fmt.Errorf("game %s: %w", record[0], err)
			}
		}
		summary.Add(GameResult{
			GameID: record[0],
			Scores: [2]int{nums[0], nums[1]},
			Turns:  nums[2],
		})
	}
	return summary, nil
}
