package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRow(t *testing.T) {
	rec, err := NormalizeRow(map[string]string{
		"Question": "How to file a claim?",
		"Country":  "  nIGeRia ",
		"Answer":   "Submit Form A",
		"Comment":  "within 30 days",
	})
	require.NoError(t, err)

	assert.Equal(t, "How to file a claim?", rec.Question)
	assert.Equal(t, "Nigeria", rec.Country)
	assert.Equal(t, "Submit Form A", rec.Answer)
	assert.Equal(t, "within 30 days", rec.Comment)
	assert.Equal(t, Fingerprint("How to file a claim?"), rec.ContentHash)
}

func TestNormalizeRow_MissingFieldsBecomeEmpty(t *testing.T) {
	rec, err := NormalizeRow(map[string]string{"Question": "Is motor cover compulsory?"})
	require.NoError(t, err)

	assert.Equal(t, "", rec.Country)
	assert.Equal(t, "", rec.Answer)
	assert.Equal(t, "", rec.Comment)
	assert.NotEmpty(t, rec.ContentHash)
}

func TestNormalizeRow_HashIgnoresMetadata(t *testing.T) {
	a, err := NormalizeRow(map[string]string{"Question": "Same question?", "Country": "Nigeria"})
	require.NoError(t, err)
	b, err := NormalizeRow(map[string]string{"Question": "Same question?", "Country": "Kenya", "Answer": "Different"})
	require.NoError(t, err)

	assert.Equal(t, a.ContentHash, b.ContentHash)
}

func TestNormalizeRow_RejectsMissingQuestion(t *testing.T) {
	cases := []map[string]string{
		{},
		{"Question": ""},
		{"Question": "   "},
		{"Country": "Nigeria", "Answer": "Yes"},
	}
	for _, row := range cases {
		_, err := NormalizeRow(row)
		assert.ErrorIs(t, err, ErrMalformedRecord)
	}
}

func TestNormalizeRow_TitleCasesMultiWordCountry(t *testing.T) {
	rec, err := NormalizeRow(map[string]string{"Question": "q", "Country": "south africa"})
	require.NoError(t, err)
	assert.Equal(t, "South Africa", rec.Country)
}
