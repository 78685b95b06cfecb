package scdb

import (
	"fmt"
	"strconv"
)

// IssueArea is the subject-matter grouping the Supreme Court Database
// assigns to a case.
type IssueArea uint8

const (
	CriminalProcedure   IssueArea = 1
	CivilRights         IssueArea = 2
	FirstAmendment      IssueArea = 3
	DueProcess          IssueArea = 4
	Privacy             IssueArea = 5
	Attorneys           IssueArea = 6
	Unions              IssueArea = 7
	EconomicActivity    IssueArea = 8
	JudicialPower       IssueArea = 9
	Federalism          IssueArea = 10
	InterstateRelations IssueArea = 11
	FederalTaxation     IssueArea = 12
	Miscellaneous       IssueArea = 13
	PrivateAction       IssueArea = 14
)

var areaNames = map[IssueArea]string{
	CriminalProcedure:   "Criminal Procedure",
	CivilRights:         "Civil Rights",
	FirstAmendment:      "First Amendment",
	DueProcess:          "Due Process",
	Privacy:             "Privacy",
	Attorneys:           "Attorneys",
	Unions:              "Unions",
	EconomicActivity:    "Economic Activity",
	JudicialPower:       "Judicial Power",
	Federalism:          "Federalism",
	InterstateRelations: "Interstate Relations",
	FederalTaxation:     "Federal Taxation",
	Miscellaneous:       "Miscellaneous",
	PrivateAction:       "Private Action",
}

var areaSlugs = map[IssueArea]string{
	CriminalProcedure:   "criminal_procedure",
	CivilRights:         "civil_rights",
	FirstAmendment:      "first_amendment",
	DueProcess:          "due_process",
	Privacy:             "privacy",
	Attorneys:           "attorneys",
	Unions:              "unions",
	EconomicActivity:    "economic_activity",
	JudicialPower:       "judicial_power",
	Federalism:          "federalism",
	InterstateRelations: "interstate_relations",
	FederalTaxation:     "federal_taxation",
	Miscellaneous:       "miscellaneous",
	PrivateAction:       "private_action",
}

// RetainedAreas returns the issue areas kept as feature columns, in the
// fixed order every downstream consumer relies on. Interstate relations,
// miscellaneous, and private action cases are too sparse to support a
// per-justice majority and are not retained.
func RetainedAreas() []IssueArea {
	return []IssueArea{
		CriminalProcedure,
		CivilRights,
		FirstAmendment,
		DueProcess,
		Privacy,
		Attorneys,
		Unions,
		EconomicActivity,
		JudicialPower,
		Federalism,
		FederalTaxation,
	}
}

// ParseIssueArea interprets a raw issue area code.
func ParseIssueArea(code string) (IssueArea, error) {
	value, err := strconv.ParseUint(code, 10, 8)
	if err != nil || value < uint64(CriminalProcedure) || value > uint64(PrivateAction) {
		return 0, fmt.Errorf("unknown issue area code %q", code)
	}
	return IssueArea(value), nil
}

// AreaBySlug resolves a column slug back to its issue area.
func AreaBySlug(slug string) (IssueArea, bool) {
	for area, s := range areaSlugs {
		if s == slug {
			return area, true
		}
	}
	return 0, false
}

// Slug returns the column name used for the area in the feature matrix.
func (a IssueArea) Slug() string {
	return areaSlugs[a]
}

func (a IssueArea) String() string {
	name, ok := areaNames[a]
	if !ok {
		return fmt.Sprintf("IssueArea(%d)", uint8(a))
	}
	return name
}
