package analysis

import (
	"regexp"
	"strings"
)

// ColumnRole classifies a dataset column by its header text
type ColumnRole int

const (
	// RoleUnclassified marks a header the classifier does not recognize
	RoleUnclassified ColumnRole = iota
	// RoleIdentifier marks the participant identifier column
	RoleIdentifier
	// RoleQuestion marks a "Que - <text>" question column
	RoleQuestion
	// RolePoints marks a "Points - <text>" per-question score column
	RolePoints
	// RoleMetadata marks one of the fixed metadata columns
	RoleMetadata
	// RoleFeedbackSubscore marks one of the F1..F4 feedback columns
	RoleFeedbackSubscore
)

// String returns the string representation of the role
func (r ColumnRole) String() string {
	switch r {
	case RoleIdentifier:
		return "identifier"
	case RoleQuestion:
		return "question"
	case RolePoints:
		return "points"
	case RoleMetadata:
		return "metadata"
	case RoleFeedbackSubscore:
		return "feedback_subscore"
	default:
		return "unclassified"
	}
}

// MetadataKind identifies which fixed metadata column a header matched
type MetadataKind int

const (
	// MetadataNone means the column is not a metadata column
	MetadataNone MetadataKind = iota
	// MetadataTotalPoints is the overall score column
	MetadataTotalPoints
	// MetadataEmployeeName is the participant display name column
	MetadataEmployeeName
	// MetadataStartTime is the assessment start timestamp column
	MetadataStartTime
	// MetadataFacultyName is the trainer name column
	MetadataFacultyName
)

const (
	questionMarker = "Que"
	pointsMarker   = "Points"
)

// Column is one classified dataset column
type Column struct {
	Name          string
	Role          ColumnRole
	Label         string // extracted English label, empty when none
	QuestionKey   string // shared suffix linking "Que - x" to "Points - x"
	Metadata      MetadataKind
	FeedbackIndex int // 1..4 for feedback subscore columns
}

// Schema is the result of classifying a dataset's headers
type Schema struct {
	Columns    []Column
	Identifier string // identifier column name, empty when absent

	byName    map[string]int
	questions map[string]string // question key -> column name, first wins
	points    map[string]string // question key -> column name, first wins
	metadata  map[MetadataKind]string
	feedback  map[int]string // subscore index 1..4 -> column name
}

// englishParenRe matches the first parenthesized group in a header
var englishParenRe = regexp.MustCompile(`\(([^)]+)\)`)

// isEnglishOnly reports whether every character is ASCII alphanumeric, space
// or one of ".,-()[]", with at least one alphabetic character.
func isEnglishOnly(text string) bool {
	hasAlpha := false
	for _, r := range text {
		if r > 127 {
			return false
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasAlpha = true
		case r >= '0' && r <= '9':
		case r == ' ' || r == '.' || r == ',' || r == '-' || r == '(' || r == ')' || r == '[' || r == ']':
		default:
			return false
		}
	}
	return hasAlpha
}

// ExtractEnglish pulls the English-only display label out of a possibly
// bilingual header. Precedence: a parenthesized English group, then the whole
// header, then the first English part of a dash-split.
func ExtractEnglish(header string) (string, bool) {
	if m := englishParenRe.FindStringSubmatch(header); m != nil && isEnglishOnly(m[1]) {
		return strings.TrimSpace(m[1]), true
	}
	if isEnglishOnly(header) {
		return strings.TrimSpace(header), true
	}
	if strings.Contains(header, "-") {
		for _, part := range strings.Split(header, "-") {
			part = strings.TrimSpace(part)
			if isEnglishOnly(part) {
				return part, true
			}
		}
	}
	return "", false
}

// isIdentifierHeader reports whether the header names the participant
// identifier column ("pers no", case and whitespace insensitive).
func isIdentifierHeader(header string) bool {
	collapsed := strings.Join(strings.Fields(strings.ToLower(header)), "")
	return strings.Contains(collapsed, "persno")
}

// parseMarked extracts the suffix of a "<marker> - <suffix>" header
func parseMarked(header, marker string) (string, bool) {
	trimmed := strings.TrimSpace(header)
	if !strings.HasPrefix(trimmed, marker) {
		return "", false
	}
	rest := strings.TrimLeft(trimmed[len(marker):], " ")
	if !strings.HasPrefix(rest, "-") {
		return "", false
	}
	suffix := strings.TrimSpace(rest[1:])
	if suffix == "" {
		return "", false
	}
	return suffix, true
}

// metadataKind matches the header against the fixed metadata vocabulary
func metadataKind(header string) MetadataKind {
	switch strings.ToLower(strings.TrimSpace(header)) {
	case "total points":
		return MetadataTotalPoints
	case "employee name":
		return MetadataEmployeeName
	case "start time":
		return MetadataStartTime
	case "faculty name":
		return MetadataFacultyName
	default:
		return MetadataNone
	}
}

// cleanFeedbackHeader strips non-breaking spaces and zero-width joiners that
// survey exports sneak into feedback headers.
func cleanFeedbackHeader(header string) string {
	cleaned := strings.ReplaceAll(header, " ", " ")
	cleaned = strings.ReplaceAll(cleaned, "‌", "")
	return strings.TrimSpace(cleaned)
}

// feedbackIndex returns the subscore family index (1..4) for a prefixed
// feedback header, or 0.
func feedbackIndex(header string) int {
	cleaned := cleanFeedbackHeader(header)
	for i := 1; i <= 4; i++ {
		if strings.HasPrefix(cleaned, "F"+string(rune('0'+i))+"Que") {
			return i
		}
	}
	return 0
}

// bareFeedbackIndex returns the subscore index for a bare "F1".."F4" header, or 0
func bareFeedbackIndex(header string) int {
	cleaned := cleanFeedbackHeader(header)
	for i := 1; i <= 4; i++ {
		if cleaned == "F"+string(rune('0'+i)) {
			return i
		}
	}
	return 0
}

// Classify classifies every header in order. Classification is pure: it
// depends only on header text, never on data values. Unrecognized headers are
// simply RoleUnclassified, never an error.
func Classify(headers []string) *Schema {
	s := &Schema{
		Columns:   make([]Column, 0, len(headers)),
		byName:    make(map[string]int, len(headers)),
		questions: make(map[string]string),
		points:    make(map[string]string),
		metadata:  make(map[MetadataKind]string),
		feedback:  make(map[int]string),
	}

	for _, header := range headers {
		col := Column{Name: header}

		switch {
		case s.Identifier == "" && isIdentifierHeader(header):
			col.Role = RoleIdentifier
			s.Identifier = header
			if label, ok := ExtractEnglish(header); ok {
				col.Label = label
			}

		case classifyQuestion(&col, header):
			if _, taken := s.questions[col.QuestionKey]; !taken {
				s.questions[col.QuestionKey] = header
			}

		case classifyPoints(&col, header):
			if _, taken := s.points[col.QuestionKey]; !taken {
				s.points[col.QuestionKey] = header
			}

		case metadataKind(header) != MetadataNone:
			col.Role = RoleMetadata
			col.Metadata = metadataKind(header)
			col.Label = strings.TrimSpace(header)
			if _, taken := s.metadata[col.Metadata]; !taken {
				s.metadata[col.Metadata] = header
			}

		case feedbackIndex(header) != 0:
			col.Role = RoleFeedbackSubscore
			col.FeedbackIndex = feedbackIndex(header)
			col.Label = cleanFeedbackHeader(header)
			if _, taken := s.feedback[col.FeedbackIndex]; !taken {
				s.feedback[col.FeedbackIndex] = header
			}

		default:
			col.Role = RoleUnclassified
			if label, ok := ExtractEnglish(header); ok {
				col.Label = label
			}
		}

		s.byName[header] = len(s.Columns)
		s.Columns = append(s.Columns, col)
	}

	// Bare F1..F4 headers only count when the prefixed family is incomplete
	if len(s.feedback) < 4 {
		for i, col := range s.Columns {
			if col.Role != RoleUnclassified {
				continue
			}
			if idx := bareFeedbackIndex(col.Name); idx != 0 {
				if _, taken := s.feedback[idx]; !taken {
					s.feedback[idx] = col.Name
					s.Columns[i].Role = RoleFeedbackSubscore
					s.Columns[i].FeedbackIndex = idx
				}
			}
		}
	}

	return s
}

// classifyQuestion fills col for a question header, reporting success
func classifyQuestion(col *Column, header string) bool {
	suffix, ok := parseMarked(header, questionMarker)
	if !ok {
		return false
	}
	col.Role = RoleQuestion
	col.QuestionKey = suffix
	if label, extracted := ExtractEnglish(suffix); extracted {
		col.Label = label
	}
	return true
}

// classifyPoints fills col for a points header, reporting success
func classifyPoints(col *Column, header string) bool {
	suffix, ok := parseMarked(header, pointsMarker)
	if !ok {
		return false
	}
	col.Role = RolePoints
	col.QuestionKey = suffix
	if label, extracted := ExtractEnglish(suffix); extracted {
		col.Label = label
	}
	return true
}

// ColumnByName returns the classified column for a header
func (s *Schema) ColumnByName(name string) (Column, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Column{}, false
	}
	return s.Columns[i], true
}

// IdentifierColumn returns the identifier column name, or a SchemaError when
// no header names one.
func (s *Schema) IdentifierColumn() (string, error) {
	if s.Identifier == "" {
		return "", NewSchemaError("identifier", "no column matching \"pers no\" found")
	}
	return s.Identifier, nil
}

// MetadataColumn returns the column name matched for the given metadata kind
func (s *Schema) MetadataColumn(kind MetadataKind) (string, bool) {
	name, ok := s.metadata[kind]
	return name, ok
}

// FeedbackColumns returns the four feedback subscore column names in order.
// All four must be present for feedback scoring to proceed.
func (s *Schema) FeedbackColumns() ([4]string, bool) {
	var cols [4]string
	for i := 1; i <= 4; i++ {
		name, ok := s.feedback[i]
		if !ok {
			return cols, false
		}
		cols[i-1] = name
	}
	return cols, true
}

// QuestionPair links the pre and post columns sharing a question key
type QuestionPair struct {
	Key        string
	Label      string
	PreColumn  string
	PostColumn string
}

// MatchQuestions pairs question columns present in both schemas. A question
// is shared only when both sides expose the same key and the key yields an
// English label.
func (s *Schema) MatchQuestions(post *Schema) []QuestionPair {
	return matchMarked(s, post, s.questions, post.questions)
}

// MatchPoints pairs points columns present in both schemas, same sharing rule
// as MatchQuestions.
func (s *Schema) MatchPoints(post *Schema) []QuestionPair {
	return matchMarked(s, post, s.points, post.points)
}

// matchMarked pairs key-matched columns in pre header order
func matchMarked(pre, post *Schema, preCols, postCols map[string]string) []QuestionPair {
	var pairs []QuestionPair
	for _, col := range pre.Columns {
		preName, isPre := preCols[col.QuestionKey]
		if col.QuestionKey == "" || !isPre || preName != col.Name {
			continue
		}
		postName, isPost := postCols[col.QuestionKey]
		if !isPost {
			continue
		}
		label, ok := ExtractEnglish(col.QuestionKey)
		if !ok {
			continue
		}
		pairs = append(pairs, QuestionPair{
			Key:        col.QuestionKey,
			Label:      label,
			PreColumn:  preName,
			PostColumn: postName,
		})
	}
	return pairs
}
