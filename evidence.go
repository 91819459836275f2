package petrag

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Snippet is a web search result used as external evidence.
type Snippet struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	URL           string  `json:"url"`
	RelevanceHint float64 `json:"relevance_hint"`
}

type EvidenceItem struct {
	Content    string
	Score      float64
	IsExternal bool
	// Source is the document source name for internal items and the URL for external ones.
	Source     string
	Department string
	Title      string
}

// SourceTag is how answers cite an evidence item.
func (e EvidenceItem) SourceTag() string {
	if e.IsExternal {
		return "[web:" + e.Source + "]"
	}
	tag := "[internal:" + cmp.Or(e.Source, "kb")
	if e.Department != "" {
		tag += "/" + e.Department
	}
	return tag + "]"
}

// EvidenceSet is ordered internal items first, each group by descending score.
type EvidenceSet []EvidenceItem

// BuildEvidenceSet merges graded internal documents scoring at least minScore
// with web snippets.
func BuildEvidenceSet(graded GradeResult, snippets []Snippet, minScore float64) EvidenceSet {
	var internal, external EvidenceSet

	for _, g := range graded.Grades {
		if g.Score < minScore {
			continue
		}
		doc := g.Result.Document
		internal = append(internal, EvidenceItem{
			Content:    doc.Content,
			Score:      g.Score,
			Source:     doc.Metadata[MetaSource],
			Department: doc.Metadata[MetaDepartment],
			Title:      doc.Metadata[MetaDisease],
		})
	}
	for _, s := range snippets {
		external = append(external, EvidenceItem{
			Content:    s.Content,
			Score:      clampScore(s.RelevanceHint),
			IsExternal: true,
			Source:     s.URL,
			Title:      s.Title,
		})
	}

	byScore := func(a, b EvidenceItem) int { return cmp.Compare(b.Score, a.Score) }
	slices.SortStableFunc(internal, byScore)
	slices.SortStableFunc(external, byScore)

	return append(internal, external...)
}

// Top returns at most n items, keeping the order.
func (s EvidenceSet) Top(n int) EvidenceSet {
	if n < 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func (s EvidenceSet) ExternalCount() int {
	var n int
	for _, item := range s {
		if item.IsExternal {
			n++
		}
	}
	return n
}

// RenderEvidence formats items as numbered passages prefixed with their source tags.
func RenderEvidence(items []EvidenceItem) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, item.SourceTag(), strings.TrimSpace(item.Content))
	}
	return b.String()
}

var citationPattern = regexp.MustCompile(`\[(?:internal|web):[^\]\n]+\]`)

// VerifyCitations splits source tags found in answer into the ones matching
// an evidence item and the ones that do not.
func VerifyCitations(answer string, items []EvidenceItem) (cited, unknown []string) {
	known := make(map[string]struct{}, len(items))
	for _, item := range items {
		known[item.SourceTag()] = struct{}{}
	}

	seen := map[string]struct{}{}
	for _, tag := range citationPattern.FindAllString(answer, -1) {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		if _, ok := known[tag]; ok {
			cited = append(cited, tag)
		} else {
			unknown = append(unknown, tag)
		}
	}

	return cited, unknown
}
