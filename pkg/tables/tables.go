package tables

import "github.com/apache/arrow/go/v18/arrow"

const (
	JoinedVotesName = "joined_votes"
	FeaturesName    = "features"

	ParquetExt = ".parquet"
)

const (
	CaseIdFieldName           = "case_id"
	TermFieldName             = "term"
	ChiefFieldName            = "chief"
	JusticeIdFieldName        = "justice_id"
	JusticeNameFieldName      = "justice_name"
	IssueAreaFieldName        = "issue_area"
	CaseDirectionFieldName    = "case_direction"
	JusticeDirectionFieldName = "justice_direction"
	ScoreMeanFieldName        = "score_mean"
	ScoreSdFieldName          = "score_sd"
	LabelFieldName            = "label"
)

// JoinedVotes is the cleaned vote table inner-joined with per-term ideology
// scores. One row per justice vote per case.
var JoinedVotes = arrow.NewSchema([]arrow.Field{
	{Name: CaseIdFieldName,
		Type:     arrow.BinaryTypes.String,
		Metadata: comment("The Supreme Court Database identifier of the case"),
	},
	{Name: TermFieldName,
		Type:     arrow.PrimitiveTypes.Uint16,
		Metadata: comment("The term the case was decided in"),
	},
	{Name: ChiefFieldName,
		Type: &arrow.DictionaryType{
			IndexType: arrow.PrimitiveTypes.Uint8,
			ValueType: arrow.BinaryTypes.String,
			Ordered:   false,
		},
		Metadata: comment("The chief justice presiding over the term"),
	},
	{Name: JusticeIdFieldName,
		Type:     arrow.PrimitiveTypes.Uint16,
		Metadata: comment("The database identifier of the voting justice"),
	},
	{Name: JusticeNameFieldName,
		Type: &arrow.DictionaryType{
			IndexType: arrow.PrimitiveTypes.Uint8,
			ValueType: arrow.BinaryTypes.String,
			Ordered:   false,
		},
		Metadata: comment("The name of the voting justice"),
	},
	{Name: IssueAreaFieldName,
		Type:     arrow.PrimitiveTypes.Uint8,
		Metadata: comment("The subject-matter grouping of the case, codes 1 through 14"),
	},
	{Name: CaseDirectionFieldName,
		Type:     arrow.PrimitiveTypes.Uint8,
		Metadata: comment("The ideological direction of the decision: 0 conservative, 1 liberal"),
	},
	{Name: JusticeDirectionFieldName,
		Type:     arrow.PrimitiveTypes.Uint8,
		Metadata: comment("The ideological direction of the justice's vote: 0 conservative, 1 liberal"),
	},
	{Name: ScoreMeanFieldName,
		Type:     arrow.PrimitiveTypes.Float64,
		Metadata: comment("The justice's estimated ideology for the term; positive is conservative"),
	},
	{Name: ScoreSdFieldName,
		Type:     arrow.PrimitiveTypes.Float64,
		Metadata: comment("The standard deviation of the ideology estimate"),
	},
}, commentReference("Cleaned justice votes joined with per-term ideology scores"))

// NewFeaturesSchema builds the schema for the per-(justice, term) feature
// matrix. Issue-area columns appear in the order given; cells hold 0 for
// absent or tied, otherwise the majority direction code 1 or 2.
func NewFeaturesSchema(areaSlugs []string) *arrow.Schema {
	fields := []arrow.Field{
		{Name: JusticeIdFieldName,
			Type:     arrow.PrimitiveTypes.Uint16,
			Metadata: comment("The database identifier of the justice"),
		},
		{Name: TermFieldName,
			Type:     arrow.PrimitiveTypes.Uint16,
			Metadata: comment("The term the features summarize"),
		},
	}
	for _, slug := range areaSlugs {
		fields = append(fields, arrow.Field{
			Name:     slug,
			Type:     arrow.PrimitiveTypes.Uint8,
			Metadata: comment("Majority vote direction in the area: 0 absent or tied, 1 conservative, 2 liberal"),
		})
	}
	fields = append(fields, arrow.Field{
		Name:     LabelFieldName,
		Type:     arrow.PrimitiveTypes.Uint8,
		Metadata: comment("Ideology label from the sign of the term's score: 1 conservative, 0 liberal"),
	})

	return arrow.NewSchema(fields,
		commentReference("Per-(justice, term) majority-direction feature matrix"))
}

func comment(text string) arrow.Metadata {
	return arrow.NewMetadata([]string{"comment"}, []string{text})
}

func commentReference(text string) *arrow.Metadata {
	metadata := comment(text)
	return &metadata
}
