package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEnglish(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{
			name:   "parenthesized english in bilingual header",
			header: "पदनाम क्रमांक (Pers No.)",
			want:   "Pers No.",
			ok:     true,
		},
		{
			name:   "pure english header",
			header: "Total Points",
			want:   "Total Points",
			ok:     true,
		},
		{
			name:   "english with punctuation and digits",
			header: "Q1. Safety, Part (2) [a]",
			want:   "Q1. Safety, Part (2) [a]",
			ok:     true,
		},
		{
			name:   "dash split first english part",
			header: "सुरक्षा - What is PPE",
			want:   "What is PPE",
			ok:     true,
		},
		{
			name:   "dash split picks english over devanagari",
			header: "What is PPE - पीपीई क्या है",
			want:   "What is PPE",
			ok:     true,
		},
		{
			name:   "no english anywhere",
			header: "पदनाम क्रमांक",
			want:   "",
			ok:     false,
		},
		{
			name:   "digits only is not english",
			header: "12345",
			want:   "",
			ok:     false,
		},
		{
			name:   "parenthesized group not english falls through to dash",
			header: "भाग (एक) - Section One",
			want:   "Section One",
			ok:     true,
		},
		{
			name:   "empty header",
			header: "",
			want:   "",
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractEnglish(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsIdentifierHeader(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"Pers No.", true},
		{"PERS NO", true},
		{"pers   no", true},
		{"पदनाम क्रमांक (Pers No.)", true},
		{"PersNo", true},
		{"Person Name", false},
		{"Employee Name", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, isIdentifierHeader(tt.header))
		})
	}
}

func TestClassifyRoles(t *testing.T) {
	headers := []string{
		"Sr No",
		"पदनाम क्रमांक (Pers No.)",
		"Employee Name",
		"Start Time",
		"Faculty Name",
		"Total Points",
		"Que - What is PPE",
		"Points - What is PPE",
		"Que - पीपीई क्या है",
		"अज्ञात स्तंभ",
	}

	s := Classify(headers)
	require.Len(t, s.Columns, len(headers))

	assert.Equal(t, "पदनाम क्रमांक (Pers No.)", s.Identifier)

	byName := make(map[string]Column)
	for _, c := range s.Columns {
		byName[c.Name] = c
	}

	assert.Equal(t, RoleUnclassified, byName["Sr No"].Role)
	assert.Equal(t, RoleIdentifier, byName["पदनाम क्रमांक (Pers No.)"].Role)
	assert.Equal(t, "Pers No.", byName["पदनाम क्रमांक (Pers No.)"].Label)

	assert.Equal(t, RoleMetadata, byName["Employee Name"].Role)
	assert.Equal(t, MetadataEmployeeName, byName["Employee Name"].Metadata)
	assert.Equal(t, RoleMetadata, byName["Start Time"].Role)
	assert.Equal(t, RoleMetadata, byName["Faculty Name"].Role)
	assert.Equal(t, RoleMetadata, byName["Total Points"].Role)
	assert.Equal(t, MetadataTotalPoints, byName["Total Points"].Metadata)

	assert.Equal(t, RoleQuestion, byName["Que - What is PPE"].Role)
	assert.Equal(t, "What is PPE", byName["Que - What is PPE"].QuestionKey)
	assert.Equal(t, RolePoints, byName["Points - What is PPE"].Role)
	assert.Equal(t, "What is PPE", byName["Points - What is PPE"].QuestionKey)

	// Question with a non-English key still classifies as a question
	assert.Equal(t, RoleQuestion, byName["Que - पीपीई क्या है"].Role)
	assert.Empty(t, byName["Que - पीपीई क्या है"].Label)

	assert.Equal(t, RoleUnclassified, byName["अज्ञात स्तंभ"].Role)
}

func TestClassifyFirstIdentifierWins(t *testing.T) {
	s := Classify([]string{"Pers No", "Backup Pers No"})

	assert.Equal(t, "Pers No", s.Identifier)
	assert.Equal(t, RoleIdentifier, s.Columns[0].Role)
	assert.Equal(t, RoleUnclassified, s.Columns[1].Role)
}

func TestIdentifierColumnMissing(t *testing.T) {
	s := Classify([]string{"Sr No", "Employee Name"})

	_, err := s.IdentifierColumn()
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
}

func TestFeedbackColumns(t *testing.T) {
	t.Run("prefixed headers with invisible characters", func(t *testing.T) {
		s := Classify([]string{
			"F1Que - Course content was relevant",
			"F2Que - Trainer knowledge",
			"‌F3Que - Training material",
			"F4Que - Overall arrangement",
		})

		cols, ok := s.FeedbackColumns()
		require.True(t, ok)
		assert.Equal(t, "F1Que - Course content was relevant", cols[0])
		assert.Equal(t, "F2Que - Trainer knowledge", cols[1])
		assert.Equal(t, "‌F3Que - Training material", cols[2])
		assert.Equal(t, "F4Que - Overall arrangement", cols[3])
	})

	t.Run("bare headers fill in when prefixed family incomplete", func(t *testing.T) {
		s := Classify([]string{"F1Que - Content", "F2", "F3", "F4"})

		cols, ok := s.FeedbackColumns()
		require.True(t, ok)
		assert.Equal(t, [4]string{"F1Que - Content", "F2", "F3", "F4"}, cols)
	})

	t.Run("incomplete family", func(t *testing.T) {
		s := Classify([]string{"F1Que - Content", "F2Que - Trainer", "F3Que - Material"})

		_, ok := s.FeedbackColumns()
		assert.False(t, ok)
	})

	t.Run("bare headers ignored when prefixed family complete", func(t *testing.T) {
		s := Classify([]string{
			"F1Que - A", "F2Que - B", "F3Que - C", "F4Que - D", "F1",
		})

		cols, ok := s.FeedbackColumns()
		require.True(t, ok)
		assert.Equal(t, "F1Que - A", cols[0])

		byName := make(map[string]Column)
		for _, c := range s.Columns {
			byName[c.Name] = c
		}
		assert.Equal(t, RoleUnclassified, byName["F1"].Role)
	})
}

func TestMatchQuestions(t *testing.T) {
	pre := Classify([]string{
		"Pers No",
		"Que - What is PPE",
		"Que - Fire safety",
		"Que - केवल हिंदी",
		"Que - Pre only question",
	})
	post := Classify([]string{
		"Pers No",
		"Que - Fire safety",
		"Que - What is PPE",
		"Que - केवल हिंदी",
		"Que - Post only question",
	})

	pairs := pre.MatchQuestions(post)
	require.Len(t, pairs, 2)

	// Pre header order, non-English keys excluded
	assert.Equal(t, "What is PPE", pairs[0].Label)
	assert.Equal(t, "Que - What is PPE", pairs[0].PreColumn)
	assert.Equal(t, "Que - What is PPE", pairs[0].PostColumn)
	assert.Equal(t, "Fire safety", pairs[1].Label)
}

func TestMatchPoints(t *testing.T) {
	pre := Classify([]string{"Pers No", "Points - What is PPE", "Points - Fire safety"})
	post := Classify([]string{"Pers No", "Points - What is PPE"})

	pairs := pre.MatchPoints(post)
	require.Len(t, pairs, 1)
	assert.Equal(t, "What is PPE", pairs[0].Key)
	assert.Equal(t, "Points - What is PPE", pairs[0].PreColumn)
}
