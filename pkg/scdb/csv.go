package scdb

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// IncEvery is how many rows pass between progress callbacks.
const IncEvery = 1 << 10

// Columns required from the justice-centered vote table.
const (
	caseIdColumn           = "caseId"
	termColumn             = "term"
	chiefColumn            = "chief"
	justiceColumn          = "justice"
	justiceNameColumn      = "justiceName"
	issueAreaColumn        = "issueArea"
	caseDirectionColumn    = "decisionDirection"
	justiceDirectionColumn = "direction"
)

// Columns required from the per-term ideology score table.
const (
	scoreTermColumn    = "term"
	scoreJusticeColumn = "justice"
	scoreMeanColumn    = "post_mn"
	scoreSdColumn      = "post_sd"
)

// decisionDirection 3 is "unspecifiable" in the source coding; rows
// carrying it have no direction to aggregate.
const unspecifiableDirection = "3"

// VoteStats counts rows seen and dropped while loading the vote table.
type VoteStats struct {
	Rows             int
	DroppedDirection int
	DroppedIssueArea int
}

// ReadVotes loads and cleans the justice-centered vote table. Rows with a
// missing or unspecifiable direction, or no issue area, are dropped and
// counted. Rows with a direction code outside the known set are an error.
// If progress is non-nil it is called once per IncEvery rows and at the end.
func ReadVotes(r io.Reader, progress func(rows int)) ([]VoteRecord, VoteStats, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, VoteStats{}, fmt.Errorf("reading vote table header: %w", err)
	}

	columns, err := findColumns(header,
		caseIdColumn, termColumn, chiefColumn, justiceColumn,
		justiceNameColumn, issueAreaColumn, caseDirectionColumn, justiceDirectionColumn)
	if err != nil {
		return nil, VoteStats{}, fmt.Errorf("vote table: %w", err)
	}

	var votes []VoteRecord
	var stats VoteStats
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("reading vote table row: %w", err)
		}

		// Concatenated shards repeat the header row.
		if row[columns[caseIdColumn]] == caseIdColumn {
			continue
		}

		stats.Rows++
		if progress != nil && stats.Rows%IncEvery == 0 {
			progress(stats.Rows)
		}

		justiceCode := row[columns[justiceDirectionColumn]]
		caseCode := row[columns[caseDirectionColumn]]
		if justiceCode == "" || caseCode == "" ||
			justiceCode == unspecifiableDirection || caseCode == unspecifiableDirection {
			stats.DroppedDirection++
			continue
		}

		areaCode := row[columns[issueAreaColumn]]
		if areaCode == "" {
			stats.DroppedIssueArea++
			continue
		}

		justiceDirection, err := ParseDirection(justiceCode)
		if err != nil {
			return nil, stats, fmt.Errorf("vote table row %d: %w", stats.Rows, err)
		}
		caseDirection, err := ParseDirection(caseCode)
		if err != nil {
			return nil, stats, fmt.Errorf("vote table row %d: %w", stats.Rows, err)
		}
		area, err := ParseIssueArea(areaCode)
		if err != nil {
			return nil, stats, fmt.Errorf("vote table row %d: %w", stats.Rows, err)
		}

		term, err := parseUint16(row[columns[termColumn]])
		if err != nil {
			return nil, stats, fmt.Errorf("vote table row %d: term: %w", stats.Rows, err)
		}
		justiceID, err := parseUint16(row[columns[justiceColumn]])
		if err != nil {
			return nil, stats, fmt.Errorf("vote table row %d: justice: %w", stats.Rows, err)
		}

		votes = append(votes, VoteRecord{
			CaseID:           row[columns[caseIdColumn]],
			Term:             term,
			Chief:            row[columns[chiefColumn]],
			JusticeID:        justiceID,
			JusticeName:      row[columns[justiceNameColumn]],
			IssueArea:        area,
			CaseDirection:    caseDirection,
			JusticeDirection: justiceDirection,
		})
	}

	if progress != nil {
		progress(stats.Rows)
	}
	return votes, stats, nil
}

// ReadScores loads the per-term ideology score table. Rows without a score
// are dropped.
func ReadScores(r io.Reader, progress func(rows int)) ([]IdeologyScore, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading score table header: %w", err)
	}

	columns, err := findColumns(header,
		scoreTermColumn, scoreJusticeColumn, scoreMeanColumn, scoreSdColumn)
	if err != nil {
		return nil, fmt.Errorf("score table: %w", err)
	}

	var scores []IdeologyScore
	rows := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading score table row: %w", err)
		}

		// Concatenated shards repeat the header row.
		if row[columns[scoreTermColumn]] == scoreTermColumn {
			continue
		}

		rows++
		if progress != nil && rows%IncEvery == 0 {
			progress(rows)
		}

		meanValue := row[columns[scoreMeanColumn]]
		if meanValue == "" || meanValue == "NA" {
			continue
		}

		term, err := parseUint16(row[columns[scoreTermColumn]])
		if err != nil {
			return nil, fmt.Errorf("score table row %d: term: %w", rows, err)
		}
		justiceID, err := parseUint16(row[columns[scoreJusticeColumn]])
		if err != nil {
			return nil, fmt.Errorf("score table row %d: justice: %w", rows, err)
		}
		mean, err := strconv.ParseFloat(meanValue, 64)
		if err != nil {
			return nil, fmt.Errorf("score table row %d: mean: %w", rows, err)
		}

		sd := 0.0
		sdValue := row[columns[scoreSdColumn]]
		if sdValue != "" && sdValue != "NA" {
			sd, err = strconv.ParseFloat(sdValue, 64)
			if err != nil {
				return nil, fmt.Errorf("score table row %d: sd: %w", rows, err)
			}
		}

		scores = append(scores, IdeologyScore{
			Term:      term,
			JusticeID: justiceID,
			ScoreMean: mean,
			ScoreSD:   sd,
		})
	}

	if progress != nil {
		progress(rows)
	}
	return scores, nil
}

func findColumns(header []string, names ...string) (map[string]int, error) {
	columns := make(map[string]int, len(names))
	for i, name := range header {
		columns[name] = i
	}

	result := make(map[string]int, len(names))
	for _, name := range names {
		index, found := columns[name]
		if !found {
			return nil, fmt.Errorf("missing column %q", name)
		}
		result[name] = index
	}
	return result, nil
}

func parseUint16(value string) (uint16, error) {
	parsed, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(parsed), nil
}
