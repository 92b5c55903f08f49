package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"insuranceqa/models"
)

// NormalizeRow converts one raw tabular row into a canonical Record. The
// country value is trimmed and title-cased so the jurisdiction filter can
// rely on exact equality; missing fields become empty strings, which gives
// the sentinel cleaning downstream a single representation to check.
// Rows without question text are rejected with ErrMalformedRecord.
func NormalizeRow(row map[string]string) (models.Record, error) {
	question := strings.TrimSpace(row["Question"])
	if question == "" {
		return models.Record{}, fmt.Errorf("%w: row has no question text", ErrMalformedRecord)
	}

	// A cases.Caser carries transform state, so build one per call.
	country := cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(row["Country"])))

	rec := models.Record{
		Question: question,
		Country:  country,
		Answer:   row["Answer"],
		Comment:  row["Comment"],
	}
	rec.ContentHash = Fingerprint(rec.Question)
	return rec, nil
}
