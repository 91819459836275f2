package petrag

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Domain string

const (
	DomainMedical Domain = "MEDICAL"
	DomainGeneral Domain = "GENERAL"
)

type Verdict string

const (
	VerdictAccept   Verdict = "accept"
	VerdictRewrite  Verdict = "rewrite"
	VerdictEscalate Verdict = "escalate"
)

type Dimension string

const (
	DimensionAccuracy     Dimension = "accuracy"
	DimensionClarity      Dimension = "clarity"
	DimensionCompleteness Dimension = "completeness"
	DimensionSafety       Dimension = "safety"
)

// QualityScore rates an answer on four dimensions in [0, 1].
type QualityScore struct {
	Accuracy     float64  `json:"accuracy"`
	Clarity      float64  `json:"clarity"`
	Completeness float64  `json:"completeness"`
	Safety       float64  `json:"safety"`
	Average      float64  `json:"average"`
	Verdict      Verdict  `json:"verdict"`
	Issues       []string `json:"issues,omitempty"`
}

func (q QualityScore) Dimensions() map[Dimension]float64 {
	return map[Dimension]float64{
		DimensionAccuracy:     q.Accuracy,
		DimensionClarity:      q.Clarity,
		DimensionCompleteness: q.Completeness,
		DimensionSafety:       q.Safety,
	}
}

// LowDimensions lists dimensions scoring below threshold in a fixed order.
func (q QualityScore) LowDimensions(threshold float64) []Dimension {
	var low []Dimension
	scores := q.Dimensions()
	for _, d := range []Dimension{DimensionAccuracy, DimensionClarity, DimensionCompleteness, DimensionSafety} {
		if scores[d] < threshold {
			low = append(low, d)
		}
	}
	return low
}

// VerdictFor maps an average score onto a verdict.
func VerdictFor(average, acceptThreshold, rewriteThreshold float64) Verdict {
	switch {
	case average >= acceptThreshold:
		return VerdictAccept
	case average >= rewriteThreshold:
		return VerdictRewrite
	}
	return VerdictEscalate
}

const (
	accuracyLengthFloor   = 100
	completenessGeneral   = 80
	idealSentenceMin      = 15
	idealSentenceMax      = 90
	maxAnswerRunes        = 2500
	minAnswerRunes        = 40
	minSupportingOverlap  = 2
	missingDisclaimerCost = 0.5
	missingUrgencyCost    = 0.3
)

type medicalSection struct {
	name    string
	markers []string
}

var medicalSections = []medicalSection{
	{"summary", []string{"요약", "정리하면", "summary"}},
	{"probable cause", []string{"원인", "가능성", "cause"}},
	{"home care", []string{"가정에서", "집에서", "관리", "돌봐", "home care"}},
	{"when to see a vet", []string{"병원", "내원", "수의사", "진료", "veterinarian"}},
}

// QualityEvaluator scores answers with deterministic rules so the same
// answer always gets the same verdict.
type QualityEvaluator struct {
	acceptThreshold  float64
	rewriteThreshold float64
	split            func(string) []string
}

func newQualityEvaluator(cfg Config, split func(string) []string) *QualityEvaluator {
	if split == nil {
		split = splitOnPunctuation
	}
	return &QualityEvaluator{
		acceptThreshold:  cfg.AcceptThreshold,
		rewriteThreshold: cfg.RewriteThreshold,
		split:            split,
	}
}

func (e *QualityEvaluator) Evaluate(answer, question string, domain Domain, evidence []EvidenceItem) QualityScore {
	sentences := e.sentences(answer)

	accuracy, accuracyIssues := e.accuracy(answer, sentences, evidence)
	clarity, clarityIssues := e.clarity(answer, sentences)
	completeness, completenessIssues := e.completeness(answer, domain)
	safety, safetyIssues := e.safety(answer, question)

	score := QualityScore{
		Accuracy:     accuracy,
		Clarity:      clarity,
		Completeness: completeness,
		Safety:       safety,
		Average:      (accuracy + clarity + completeness + safety) / 4,
	}
	score.Verdict = VerdictFor(score.Average, e.acceptThreshold, e.rewriteThreshold)
	for _, issues := range [][]string{accuracyIssues, clarityIssues, completenessIssues, safetyIssues} {
		score.Issues = append(score.Issues, issues...)
	}

	return score
}

func (e *QualityEvaluator) sentences(answer string) []string {
	var out []string
	for _, s := range e.split(citationPattern.ReplaceAllString(answer, "")) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (e *QualityEvaluator) accuracy(answer string, sentences []string, evidence []EvidenceItem) (float64, []string) {
	var issues []string
	length := min(1, float64(utf8.RuneCountInString(answer))/accuracyLengthFloor)

	if len(evidence) == 0 {
		return 0.3 * length, []string{"no evidence available to verify the answer"}
	}

	var corpus strings.Builder
	for _, item := range evidence {
		corpus.WriteString(item.Content)
		corpus.WriteString(" ")
	}
	corpusTokens := contentTokens(corpus.String())

	var support float64
	if len(sentences) > 0 {
		var supported int
		for _, s := range sentences {
			if overlapCount(contentTokens(s), corpusTokens) >= minSupportingOverlap {
				supported++
			}
		}
		support = float64(supported) / float64(len(sentences))
	}
	if support < 0.5 {
		issues = append(issues, "less than half of the answer is supported by the evidence")
	}

	var citation float64
	cited, unknown := VerifyCitations(answer, evidence)
	switch {
	case len(cited) > 0 && len(unknown) == 0:
		citation = 1
	case len(cited) > 0:
		citation = 0.5
		issues = append(issues, fmt.Sprintf("answer cites unknown sources: %s", strings.Join(unknown, ", ")))
	case len(unknown) > 0:
		issues = append(issues, fmt.Sprintf("answer cites unknown sources: %s", strings.Join(unknown, ", ")))
	default:
		citation = 0.3
		issues = append(issues, "answer does not cite its sources")
	}

	return 0.4*support + 0.3*citation + 0.3*length, issues
}

func (e *QualityEvaluator) clarity(answer string, sentences []string) (float64, []string) {
	if len(sentences) == 0 {
		return 0, []string{"answer is empty"}
	}

	var issues []string
	total := utf8.RuneCountInString(answer)
	avg := float64(total) / float64(len(sentences))

	var score float64
	switch {
	case avg < idealSentenceMin:
		score = avg / idealSentenceMin
		issues = append(issues, "sentences are fragmented")
	case avg > idealSentenceMax:
		score = max(0, 1-(avg-idealSentenceMax)/150)
		issues = append(issues, "sentences are too long")
	default:
		score = 1
	}

	switch {
	case total > maxAnswerRunes:
		score *= 0.8
		issues = append(issues, "answer is too long")
	case total < minAnswerRunes:
		score *= 0.5
		issues = append(issues, "answer is too short")
	}

	return score, issues
}

func (e *QualityEvaluator) completeness(answer string, domain Domain) (float64, []string) {
	if domain != DomainMedical {
		return min(1, float64(utf8.RuneCountInString(answer))/completenessGeneral), nil
	}

	var (
		found  int
		issues []string
	)
	for _, section := range medicalSections {
		if containsAny(answer, section.markers) {
			found++
			continue
		}
		issues = append(issues, "missing section: "+section.name)
	}

	return float64(found) / float64(len(medicalSections)), issues
}

func (e *QualityEvaluator) safety(answer, question string) (float64, []string) {
	var issues []string
	score := 1.0

	if !containsAny(answer, disclaimerPhrases) {
		score -= missingDisclaimerCost
		issues = append(issues, "missing advice to consult a veterinarian")
	}
	if (containsAny(question, symptomKeywords) || containsAny(answer, symptomKeywords)) && !containsAny(answer, urgentPhrases) {
		score -= missingUrgencyCost
		issues = append(issues, "symptoms mentioned without urgent care guidance")
	}

	return max(score, 0), issues
}

func contentTokens(text string) map[string]struct{} {
	tokens := map[string]struct{}{}
	for _, t := range tokenize(text) {
		if utf8.RuneCountInString(t) >= 2 {
			tokens[t] = struct{}{}
		}
	}
	return tokens
}

func overlapCount(a, b map[string]struct{}) int {
	var n int
	for t := range a {
		if _, ok := b[t]; ok {
			n++
		}
	}
	return n
}

func splitOnPunctuation(text string) []string {
	var (
		out     []string
		current strings.Builder
	)
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '?' || r == '!' || r == '\n' || r == '。' {
			if s := strings.TrimFunc(current.String(), unicode.IsSpace); s != "" {
				out = append(out, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimFunc(current.String(), unicode.IsSpace); s != "" {
		out = append(out, s)
	}
	return out
}
