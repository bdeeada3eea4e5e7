package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestRowIDJSON(t *testing.T) {
	tests := []struct {
		id   RowID
		want string
	}{
		{id: "42", want: `42`},
		{id: "-7", want: `-7`},
		{id: "007", want: `"007"`},
		{id: "q-12", want: `"q-12"`},
		{id: "", want: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			out, err := json.Marshal(tt.id)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))

			var back RowID
			require.NoError(t, json.Unmarshal(out, &back))
			assert.Equal(t, tt.id, back)
		})
	}
}

func TestRowIDUnmarshalNormalizesNumbers(t *testing.T) {
	var id RowID
	require.NoError(t, json.Unmarshal([]byte(`12.0`), &id))
	assert.Equal(t, RowID("12"), id)

	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.Equal(t, RowID(""), id)

	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestNormalizeRowID(t *testing.T) {
	assert.Equal(t, RowID("12"), NormalizeRowID(" 12.0 "))
	assert.Equal(t, RowID("12.5"), NormalizeRowID("12.5"))
	assert.Equal(t, RowID("abc"), NormalizeRowID("abc"))
}

func TestClassificationResultJSONKeys(t *testing.T) {
	r := &ClassificationResult{
		ID:         "3",
		Query:      "Periods late ho gaye hain",
		Topic:      strPtr("Menstrual Health"),
		Subtopic:   strPtr("Menstrual Cycle Information"),
		Confidence: floatPtr(0.8),
		Reason:     strPtr("late period"),
		RawOutput:  "raw",
		Model:      "sarvamai/sarvam-m",
		Status:     StatusClassified,
		Attempts:   2,
	}

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Index": 3,
		"query": "Periods late ho gaye hain",
		"topic": "Menstrual Health",
		"subtopic": "Menstrual Cycle Information",
		"confidence": 0.8,
		"reason": "late period",
		"raw_output": "raw",
		"model": "sarvamai/sarvam-m"
	}`, string(out))
}

func TestFailedResultSerializesNulls(t *testing.T) {
	r := &ClassificationResult{ID: "9", Query: "q", RawOutput: ErrorOutputPrefix + "boom", Model: "m", Status: StatusFailed}

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Index":9,"query":"q","topic":null,"subtopic":null,"confidence":null,"reason":null,"raw_output":"[ERROR] boom","model":"m"}`, string(out))
	assert.False(t, r.Succeeded())
}

func TestSucceededWithoutStatus(t *testing.T) {
	assert.True(t, (&ClassificationResult{Topic: strPtr("HIV")}).Succeeded())
	assert.False(t, (&ClassificationResult{Topic: strPtr("")}).Succeeded())
	assert.False(t, (&ClassificationResult{}).Succeeded())
}

func TestWithRunIDCopies(t *testing.T) {
	orig := &ClassificationResult{ID: "3", Topic: strPtr("HIV"), Status: StatusClassified}
	stamped := orig.WithRunID("run-1")

	assert.Equal(t, "run-1", stamped.RunID)
	assert.Empty(t, orig.RunID)
	assert.NotSame(t, orig, stamped)
	assert.Equal(t, orig.Topic, stamped.Topic)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&ClassificationResult{ID: "1"}).Validate())
	assert.NoError(t, (&ClassificationResult{ID: "1", Confidence: floatPtr(1)}).Validate())
	assert.Error(t, (&ClassificationResult{ID: "1", Confidence: floatPtr(1.5)}).Validate())
	assert.Error(t, (&ClassificationResult{ID: "1", Confidence: floatPtr(-0.1)}).Validate())
	assert.Error(t, (&ClassificationResult{}).Validate())
}

func TestResultCollection(t *testing.T) {
	c := NewResultCollection([]*ClassificationResult{
		{ID: "1"},
		nil,
		{ID: "2"},
		{ID: "1"},
	})

	assert.Equal(t, 3, c.Len())
	assert.True(t, c.Has("1"))
	assert.True(t, c.Has("2"))
	assert.False(t, c.Has("3"))

	c.Add(&ClassificationResult{ID: "3"})
	assert.True(t, c.Has("3"))

	records := c.Records()
	records[0] = nil
	assert.NotNil(t, c.Records()[0])
	assert.Equal(t, RowID("3"), c.Records()[3].ID)
}
