package analysis

import (
	"context"
	"log/slog"
	"time"

	"assesscli/internal/dataset"
)

// Request carries the datasets for one analysis invocation. Pre and Post are
// required together for the comparative metrics; either may be nil, in which
// case those sections are omitted rather than failing. Feedback is only
// consulted for the feedback category.
type Request struct {
	Category Category
	Pre      *dataset.Dataset
	Post     *dataset.Dataset
	Feedback *dataset.Dataset
}

// primary returns the dataset belonging to the requested category
func (r Request) primary() *dataset.Dataset {
	switch r.Category {
	case CategoryPre:
		return r.Pre
	case CategoryPost:
		return r.Post
	case CategoryFeedback:
		return r.Feedback
	default:
		return nil
	}
}

// Analyzer orchestrates one analysis pass over the input datasets. It is
// stateless apart from its logger; concurrent invocations are independent.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Analyze runs the single pass for the requested category: schema discovery,
// identifier matching, then every applicable metric. Metric computations are
// independent; data absence in one never prevents the others, and every
// omission is recorded on Result.Sections. The only hard failure is an
// unknown category.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if _, err := ParseCategory(string(req.Category)); err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "starting assessment analysis",
		slog.String("category", string(req.Category)),
		slog.Bool("has_pre", req.Pre != nil),
		slog.Bool("has_post", req.Post != nil),
		slog.Bool("has_feedback", req.Feedback != nil),
	)

	result := &Result{Category: req.Category}

	switch req.Category {
	case CategoryPre, CategoryPost:
		a.analyzeComparative(ctx, req, result)
	case CategoryFeedback:
		a.analyzeFeedback(ctx, req, result)
	}

	a.profilePrimary(ctx, req, result)

	a.logger.InfoContext(ctx, "assessment analysis completed",
		slog.String("category", string(req.Category)),
		slog.Duration("duration", time.Since(start)),
		slog.Int("sections", len(result.Sections)),
	)

	return result, nil
}

// analyzeComparative runs the pre/post metrics
func (a *Analyzer) analyzeComparative(ctx context.Context, req Request, result *Result) {
	comparativeSections := []string{
		SectionImprovement, SectionIDI, SectionGrouped, SectionGain, SectionMissing,
	}

	if req.Pre == nil || req.Post == nil {
		a.logger.WarnContext(ctx, "companion dataset absent, comparative metrics skipped",
			slog.Bool("has_pre", req.Pre != nil),
			slog.Bool("has_post", req.Post != nil))
		result.omitAll(comparativeSections, "companion dataset absent")
		return
	}

	preSchema := Classify(req.Pre.Columns())
	postSchema := Classify(req.Post.Columns())

	preID, preErr := preSchema.IdentifierColumn()
	postID, postErr := postSchema.IdentifierColumn()
	if preErr != nil || postErr != nil {
		err := preErr
		if err == nil {
			err = postErr
		}
		a.logger.WarnContext(ctx, "identifier column not found, comparative metrics skipped",
			slog.String("error", err.Error()))
		result.omitAll(comparativeSections, err.Error())
		return
	}

	match, err := MatchIdentifiers(req.Pre, req.Post, preID, postID)
	if err != nil {
		result.omitAll(comparativeSections, err.Error())
		return
	}

	a.logger.DebugContext(ctx, "identifier matching complete",
		slog.Int("matched", len(match.Inner)),
		slog.Int("only_pre", len(match.OnlyPre)),
		slog.Int("only_post", len(match.OnlyPost)),
	)

	a.computeImprovement(ctx, req, preSchema, postSchema, match, result)
	a.computeIDI(ctx, req, preSchema, postSchema, match, result)
	a.computeGrouped(ctx, req, preSchema, postSchema, result)
	a.computeMissing(req, preSchema, postSchema, match, result)
}

// computeImprovement fills the improvement-rate section: every matched
// question plus the Total Points pair.
func (a *Analyzer) computeImprovement(ctx context.Context, req Request, preSchema, postSchema *Schema, match *Match, result *Result) {
	pairs := questionScorePairs(preSchema.MatchQuestions(postSchema))
	if totalPair, ok := totalPointsPair(preSchema, postSchema); ok {
		pairs = append(pairs, totalPair)
	}

	if len(pairs) == 0 {
		result.omit(SectionImprovement, "no matched question or Total Points columns")
		return
	}

	result.ImprovementRates = ImprovementRates(req.Pre, req.Post, match, pairs)
	result.produced(SectionImprovement)

	a.logger.DebugContext(ctx, "improvement rates computed",
		slog.Int("pairs", len(pairs)))
}

// computeIDI fills the item-difficulty section
func (a *Analyzer) computeIDI(ctx context.Context, req Request, preSchema, postSchema *Schema, match *Match, result *Result) {
	pairs := questionScorePairs(preSchema.MatchPoints(postSchema))
	if len(pairs) == 0 {
		result.omit(SectionIDI, "no matched points columns")
		return
	}

	result.IDIData = ItemDifficulty(req.Pre, req.Post, match, pairs)
	result.produced(SectionIDI)

	a.logger.DebugContext(ctx, "item difficulty computed",
		slog.Int("pairs", len(pairs)))
}

// computeGrouped fills the date-grouped improvement and normalized gain
// sections. Both need Total Points and Start Time on both sides.
func (a *Analyzer) computeGrouped(ctx context.Context, req Request, preSchema, postSchema *Schema, result *Result) {
	cols, reason := groupColumns(preSchema, postSchema)
	if reason != "" {
		result.omit(SectionGrouped, reason)
		result.omit(SectionGain, reason)
		return
	}

	result.GroupedImprovement = GroupedImprovement(req.Pre, req.Post, cols)
	result.produced(SectionGrouped)

	result.NormalizedGain = NormalizedGain(req.Pre, req.Post, cols)
	result.produced(SectionGain)

	a.logger.DebugContext(ctx, "grouped improvement and normalized gain computed",
		slog.Int("groups", len(result.GroupedImprovement)))
}

// computeMissing builds the missing-assessment report. Participants found in
// only one export are listed with their employee name looked up from the
// export that has them.
func (a *Analyzer) computeMissing(req Request, preSchema, postSchema *Schema, match *Match, result *Result) {
	preName, _ := preSchema.MetadataColumn(MetadataEmployeeName)
	postName, _ := postSchema.MetadataColumn(MetadataEmployeeName)

	table := make([]MissingAssessment, 0, len(match.OnlyPre)+len(match.OnlyPost))
	srNo := 1
	for _, id := range match.OnlyPre {
		table = append(table, MissingAssessment{
			SrNo:         srNo,
			PersNo:       id,
			EmployeeName: lookupName(req.Pre, match.PreRows, id, preName),
			Missing:      MissingPost,
		})
		srNo++
	}
	for _, id := range match.OnlyPost {
		table = append(table, MissingAssessment{
			SrNo:         srNo,
			PersNo:       id,
			EmployeeName: lookupName(req.Post, match.PostRows, id, postName),
			Missing:      MissingPre,
		})
		srNo++
	}

	result.MissingAssessments = table
	result.produced(SectionMissing)
}

// analyzeFeedback runs the feedback weighted average
func (a *Analyzer) analyzeFeedback(ctx context.Context, req Request, result *Result) {
	if req.Feedback == nil {
		result.omit(SectionFeedback, "feedback dataset absent")
		return
	}

	schema := Classify(req.Feedback.Columns())
	cols, ok := schema.FeedbackColumns()
	if !ok {
		// Partial subscore sets disable the feature, they are not an error
		result.omit(SectionFeedback, "feedback subscore columns incomplete")
		return
	}

	score, ok := FeedbackScore(req.Feedback, cols)
	if !ok {
		result.omit(SectionFeedback, "no rows with all four subscores")
		return
	}

	result.Feedback = &score
	result.produced(SectionFeedback)

	a.logger.DebugContext(ctx, "feedback score computed",
		slog.Float64("weighted_average", score.WeightedAverage),
		slog.Int("valid_rows", score.ValidRows))
}

// profilePrimary fills the dataset overview for the requested category
func (a *Analyzer) profilePrimary(ctx context.Context, req Request, result *Result) {
	primary := req.primary()
	if primary == nil {
		result.omit(SectionProfile, "dataset for category absent")
		return
	}
	result.Profile = Profile(primary, Classify(primary.Columns()))
	result.produced(SectionProfile)
}

// questionScorePairs converts matched question pairs to score pairs
func questionScorePairs(pairs []QuestionPair) []ScorePair {
	out := make([]ScorePair, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, ScorePair{
			Label:      p.Label,
			PreColumn:  p.PreColumn,
			PostColumn: p.PostColumn,
		})
	}
	return out
}

// totalPointsPair builds the Total Points pair when both sides expose it
func totalPointsPair(preSchema, postSchema *Schema) (ScorePair, bool) {
	preCol, preOK := preSchema.MetadataColumn(MetadataTotalPoints)
	postCol, postOK := postSchema.MetadataColumn(MetadataTotalPoints)
	if !preOK || !postOK {
		return ScorePair{}, false
	}
	return ScorePair{Label: TotalPointsLabel, PreColumn: preCol, PostColumn: postCol}, true
}

// groupColumns assembles the inputs for the grouped metrics, or the omission
// reason when a required column is missing.
func groupColumns(preSchema, postSchema *Schema) (GroupColumns, string) {
	preTotal, ok := preSchema.MetadataColumn(MetadataTotalPoints)
	if !ok {
		return GroupColumns{}, "Total Points column missing from pre dataset"
	}
	postTotal, ok := postSchema.MetadataColumn(MetadataTotalPoints)
	if !ok {
		return GroupColumns{}, "Total Points column missing from post dataset"
	}
	preStart, ok := preSchema.MetadataColumn(MetadataStartTime)
	if !ok {
		return GroupColumns{}, "Start Time column missing from pre dataset"
	}
	postStart, ok := postSchema.MetadataColumn(MetadataStartTime)
	if !ok {
		return GroupColumns{}, "Start Time column missing from post dataset"
	}
	faculty, _ := preSchema.MetadataColumn(MetadataFacultyName)

	return GroupColumns{
		PreID:         preSchema.Identifier,
		PostID:        postSchema.Identifier,
		PreTotal:      preTotal,
		PostTotal:     postTotal,
		PreStartTime:  preStart,
		PostStartTime: postStart,
		PreFaculty:    faculty,
	}, ""
}

// lookupName fetches the employee name for an identifier, empty when unknown
func lookupName(ds *dataset.Dataset, rows map[string]int, id, nameColumn string) string {
	if nameColumn == "" {
		return ""
	}
	row, ok := rows[id]
	if !ok {
		return ""
	}
	cell := ds.Cell(row, nameColumn)
	if cell.IsNull() {
		return ""
	}
	return cell.Text()
}

// produced marks a section as produced
func (r *Result) produced(name string) {
	r.Sections = append(r.Sections, SectionStatus{Name: name, Produced: true})
}

// omit marks a section as omitted with a reason
func (r *Result) omit(name, reason string) {
	r.Sections = append(r.Sections, SectionStatus{Name: name, Produced: false, Reason: reason})
}

// omitAll marks several sections as omitted for the same reason
func (r *Result) omitAll(names []string, reason string) {
	for _, name := range names {
		r.omit(name, reason)
	}
}
