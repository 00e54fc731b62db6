package analysis

import "math"

// Category selects which analysis pass to run
type Category string

const (
	// CategoryPre analyzes the pre-assessment export (with post comparison)
	CategoryPre Category = "pre"
	// CategoryPost analyzes the post-assessment export (with pre comparison)
	CategoryPost Category = "post"
	// CategoryFeedback analyzes a standalone feedback export
	CategoryFeedback Category = "feedback"
)

// ParseCategory validates a category string
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryPre, CategoryPost, CategoryFeedback:
		return Category(s), nil
	default:
		return "", NewSchemaError("category", "unknown analysis category: "+s)
	}
}

// TotalPointsLabel keys the overall-score entry in metric maps. Downstream
// consumers depend on the literal string.
const TotalPointsLabel = "Total Points"

// CombinedGroup keys the all-dates aggregate in the grouped metric maps
const CombinedGroup = "Combined"

// ScorePair names a score column present in both datasets under one label
type ScorePair struct {
	Label      string
	PreColumn  string
	PostColumn string
}

// IDIResult is the item difficulty index outcome for one question
type IDIResult struct {
	PreIDI      float64 `json:"pre_idi"`
	PostIDI     float64 `json:"post_idi"`
	PreCorrect  int     `json:"pre_correct"`
	PreTotal    int     `json:"pre_total"`
	PostCorrect int     `json:"post_correct"`
	PostTotal   int     `json:"post_total"`
	Improvement float64 `json:"improvement"`
	Status      string  `json:"status"`
}

// GroupImprovement is the improvement outcome for one date group
type GroupImprovement struct {
	Rate             float64  `json:"rate"`
	ValidStudents    int      `json:"valid_students"`
	FacultyNames     []string `json:"faculty_names"`
	Date             string   `json:"date"`
	ImprovementCount int      `json:"improvement_count"`
	TotalStudents    int      `json:"total_students"`
}

// GainResult is the normalized (Hake's) gain outcome for one date group
type GainResult struct {
	Gain          float64 `json:"gain"`
	AvgPreTest    float64 `json:"avg_pre_test"`
	AvgPostTest   float64 `json:"avg_post_test"`
	PreMax        float64 `json:"pre_max"`
	PostMax       float64 `json:"post_max"`
	NormPre       float64 `json:"norm_pre"`
	NormPost      float64 `json:"norm_post"`
	ValidStudents int     `json:"valid_students"`
}

// FeedbackResult is the weighted feedback score over one feedback export
type FeedbackResult struct {
	WeightedAverage float64   `json:"weighted_average"`
	ValidRows       int       `json:"valid_rows"`
	Columns         [4]string `json:"columns"`
}

// MissingAssessment is one row of the missing-assessment report
type MissingAssessment struct {
	SrNo         int    `json:"sr_no"`
	PersNo       string `json:"pers_no"`
	EmployeeName string `json:"employee_name"`
	Missing      string `json:"missing"`
}

// Values for MissingAssessment.Missing
const (
	MissingPre  = "Pre Assessment"
	MissingPost = "Post Assessment"
)

// Section names reported on Result.Sections
const (
	SectionImprovement = "improvement_rates"
	SectionIDI         = "idi"
	SectionGrouped     = "grouped_improvement"
	SectionGain        = "normalized_gain"
	SectionFeedback    = "feedback_score"
	SectionMissing     = "missing_assessments"
	SectionProfile     = "profile"
)

// SectionStatus records whether an optional output section was produced, and
// why not when it wasn't. The presentation layer renders omitted sections as
// "not available" instead of erroring the whole page.
type SectionStatus struct {
	Name     string `json:"name"`
	Produced bool   `json:"produced"`
	Reason   string `json:"reason,omitempty"`
}

// Result is the aggregate outcome of one analysis invocation
type Result struct {
	Category           Category                    `json:"category"`
	ImprovementRates   map[string]float64          `json:"improvement_rates,omitempty"`
	IDIData            map[string]IDIResult        `json:"idi_data,omitempty"`
	GroupedImprovement map[string]GroupImprovement `json:"grouped_improvement,omitempty"`
	NormalizedGain     map[string]GainResult       `json:"normalized_gain,omitempty"`
	Feedback           *FeedbackResult             `json:"feedback,omitempty"`
	MissingAssessments []MissingAssessment         `json:"missing_assessment_table,omitempty"`
	Profile            *DatasetProfile             `json:"profile,omitempty"`
	Sections           []SectionStatus             `json:"sections"`
}

// SectionProduced reports whether the named section was produced
func (r *Result) SectionProduced(name string) bool {
	for _, s := range r.Sections {
		if s.Name == name {
			return s.Produced
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
