// Package features reshapes joined vote records into the per-(justice, term)
// matrix the classifier is trained on.
package features

import (
	"errors"
	"fmt"
	"sort"

	"github.com/scotuslab/leanings/pkg/scdb"
	"gonum.org/v1/gonum/mat"
)

// ErrNoRows is returned when a design matrix is requested over an empty row
// subset, such as a test partition that received no rows or a training set
// with one label class entirely absent.
var ErrNoRows = errors.New("no rows to build design matrix")

// AbsentCell marks an area a justice cast no votes in during a term, or
// split exactly evenly. Real cells hold the direction codes 1 and 2.
const AbsentCell = uint8(0)

// LabelConservative and LabelLiberal are the binary ideology labels derived
// from the sign of a term's score mean.
const (
	LabelLiberal      = uint8(0)
	LabelConservative = uint8(1)
)

// Key identifies one feature-matrix row.
type Key struct {
	JusticeID uint16
	Term      uint16
}

// Matrix is the pivoted feature matrix: one row per (justice, term), one
// column per retained issue area, plus a binary ideology label.
type Matrix struct {
	Areas  []scdb.IssueArea
	Keys   []Key
	Cells  [][]uint8
	Labels []uint8
}

type tally struct {
	conservative int
	liberal      int
}

// Build aggregates joined vote records into a feature matrix. Each cell is
// the justice's majority vote direction for that term and area; exact ties
// are excluded and leave the absent sentinel. The label is conservative
// exactly when the term's score mean is positive.
func Build(records []scdb.JoinedRecord) *Matrix {
	areas := scdb.RetainedAreas()
	areaIndex := make(map[scdb.IssueArea]int, len(areas))
	for i, area := range areas {
		areaIndex[area] = i
	}

	tallies := make(map[Key][]tally)
	scoreMeans := make(map[Key]float64)
	for _, record := range records {
		key := Key{JusticeID: record.JusticeID, Term: record.Term}
		counts, found := tallies[key]
		if !found {
			counts = make([]tally, len(areas))
			tallies[key] = counts
		}
		scoreMeans[key] = record.ScoreMean

		column, retained := areaIndex[record.IssueArea]
		if !retained {
			continue
		}
		switch record.JusticeDirection {
		case scdb.Conservative:
			counts[column].conservative++
		case scdb.Liberal:
			counts[column].liberal++
		}
	}

	keys := make([]Key, 0, len(tallies))
	for key := range tallies {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].JusticeID != keys[j].JusticeID {
			return keys[i].JusticeID < keys[j].JusticeID
		}
		return keys[i].Term < keys[j].Term
	})

	matrix := &Matrix{
		Areas:  areas,
		Keys:   keys,
		Cells:  make([][]uint8, len(keys)),
		Labels: make([]uint8, len(keys)),
	}
	for i, key := range keys {
		cells := make([]uint8, len(areas))
		for column, counts := range tallies[key] {
			switch {
			case counts.conservative > counts.liberal:
				cells[column] = scdb.Conservative.Code()
			case counts.liberal > counts.conservative:
				cells[column] = scdb.Liberal.Code()
			}
		}
		matrix.Cells[i] = cells

		if scoreMeans[key] > 0 {
			matrix.Labels[i] = LabelConservative
		} else {
			matrix.Labels[i] = LabelLiberal
		}
	}
	return matrix
}

// FullAreas is the candidate feature set using every retained issue area.
func FullAreas() []scdb.IssueArea {
	return scdb.RetainedAreas()
}

// ReducedAreas is the nested candidate feature set, restricted to the areas
// with the densest vote coverage.
func ReducedAreas() []scdb.IssueArea {
	return []scdb.IssueArea{
		scdb.CriminalProcedure,
		scdb.CivilRights,
		scdb.FirstAmendment,
		scdb.DueProcess,
		scdb.EconomicActivity,
		scdb.JudicialPower,
	}
}

// Design builds the numeric design matrix over the given issue areas, in
// order, along with the label vector. Cell codes enter the regression as
// numeric values, matching how the matrix is built. A nil rows slice means
// every row; an empty subset returns ErrNoRows.
func (m *Matrix) Design(areas []scdb.IssueArea, rows []int) (*mat.Dense, []float64, error) {
	columns := make([]int, len(areas))
	for i, area := range areas {
		found := false
		for j, candidate := range m.Areas {
			if candidate == area {
				columns[i] = j
				found = true
				break
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("issue area %v is not a matrix column", area)
		}
	}

	if rows == nil {
		rows = make([]int, len(m.Keys))
		for i := range rows {
			rows[i] = i
		}
	}
	if len(rows) == 0 {
		return nil, nil, ErrNoRows
	}

	x := mat.NewDense(len(rows), len(areas), nil)
	y := make([]float64, len(rows))
	for i, row := range rows {
		for j, column := range columns {
			x.Set(i, j, float64(m.Cells[row][column]))
		}
		y[i] = float64(m.Labels[row])
	}
	return x, y, nil
}
