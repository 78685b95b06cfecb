package scdb

// VoteRecord is one justice's vote in one case, after cleaning. Both
// direction fields always hold one of the two known codes.
type VoteRecord struct {
	CaseID           string
	Term             uint16
	Chief            string
	JusticeID        uint16
	JusticeName      string
	IssueArea        IssueArea
	CaseDirection    Direction
	JusticeDirection Direction
}

// IdeologyScore is a justice's estimated ideological position for one term.
// Positive means conservative.
type IdeologyScore struct {
	Term      uint16
	JusticeID uint16
	ScoreMean float64
	ScoreSD   float64
}

// JoinedRecord is a vote record extended with the justice's ideology score
// for the term the vote was cast in.
type JoinedRecord struct {
	VoteRecord
	ScoreMean float64
	ScoreSD   float64
}

type justiceTerm struct {
	justice uint16
	term    uint16
}

// Join inner-joins vote records with per-term ideology scores on
// (term, justiceID). Rows present in only one table are dropped.
func Join(votes []VoteRecord, scores []IdeologyScore) []JoinedRecord {
	byKey := make(map[justiceTerm]IdeologyScore, len(scores))
	for _, score := range scores {
		byKey[justiceTerm{justice: score.JusticeID, term: score.Term}] = score
	}

	var joined []JoinedRecord
	for _, vote := range votes {
		score, found := byKey[justiceTerm{justice: vote.JusticeID, term: vote.Term}]
		if !found {
			continue
		}
		joined = append(joined, JoinedRecord{
			VoteRecord: vote,
			ScoreMean:  score.ScoreMean,
			ScoreSD:    score.ScoreSD,
		})
	}
	return joined
}
