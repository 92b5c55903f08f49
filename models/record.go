package models

// Record is one normalized knowledge-base entry. The question text is the
// indexed content; everything else travels as metadata on the index entry.
type Record struct {
	Question    string `json:"question"`
	Country     string `json:"country"`
	Answer      string `json:"answer"`
	Comment     string `json:"comment"`
	ContentHash string `json:"hash"`
}

// Candidate pairs a retrieved Record with its distance to the query.
// Lower scores mean closer matches.
type Candidate struct {
	Record Record  `json:"record"`
	Score  float64 `json:"score"`
}

// IngestReport summarizes one bulk ingestion run.
type IngestReport struct {
	Added            int `json:"added"`
	SkippedDuplicate int `json:"skipped_duplicate"`
	Rejected         int `json:"rejected"`
}
