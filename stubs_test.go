package petrag

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var errUnavailable = errors.New("service unavailable")

type stubEmbedder struct {
	err error
}

func (e *stubEmbedder) Name() string { return "stub" }

func (e *stubEmbedder) EmbedDocuments(_ context.Context, documents []Document) ([]Vector, error) {
	vectors := make([]Vector, 0, len(documents))
	for range documents {
		vectors = append(vectors, Vector{0.1, 0.2, 0.3})
	}
	return vectors, e.err
}

func (e *stubEmbedder) EmbedContent(context.Context, string) (Vector, error) {
	if e.err != nil {
		return nil, e.err
	}
	return Vector{0.1, 0.2, 0.3}, nil
}

type stubIndex struct {
	results []RetrievalResult
	err     error
	limit   int
	batches [][]Document
}

func (i *stubIndex) Name() string { return "stub" }

func (i *stubIndex) SaveDocuments(_ context.Context, documents []Document, _ []Vector) error {
	if i.err != nil {
		return i.err
	}
	i.batches = append(i.batches, documents)
	return nil
}

func (i *stubIndex) SearchDocuments(_ context.Context, _ DocumentFilter, limit int) ([]RetrievalResult, error) {
	i.limit = limit
	return i.results, i.err
}

// stubModel implements LanguageModel with overridable behaviour per method.
type stubModel struct {
	intent    func(question string) (IntentResult, error)
	score     func(question, document string) (float64, string, error)
	answers   []string
	answerErr error
	converse  string

	mu        sync.Mutex
	calls     atomic.Int32
	feedbacks []string
	evidence  [][]EvidenceItem
}

func (m *stubModel) ClassifyIntent(_ context.Context, question string) (IntentResult, error) {
	if m.intent == nil {
		return IntentResult{}, errUnavailable
	}
	return m.intent(question)
}

func (m *stubModel) Score(_ context.Context, question, document string) (float64, string, error) {
	if m.score == nil {
		return 0, "", errUnavailable
	}
	return m.score(question, document)
}

func (m *stubModel) Answer(_ context.Context, _ string, evidence []EvidenceItem, feedback string) (string, error) {
	n := int(m.calls.Add(1))

	m.mu.Lock()
	m.feedbacks = append(m.feedbacks, feedback)
	m.evidence = append(m.evidence, evidence)
	m.mu.Unlock()

	if m.answerErr != nil {
		return "", m.answerErr
	}
	if len(m.answers) == 0 {
		return "", nil
	}
	return m.answers[min(n, len(m.answers))-1], nil
}

func (m *stubModel) Converse(context.Context, string) (string, error) {
	if m.converse == "" {
		return "", errUnavailable
	}
	return m.converse, nil
}

type stubWeb struct {
	snippets []Snippet
	err      error
	block    bool
	query    string
}

func (w *stubWeb) Search(ctx context.Context, query string, maxResults int) ([]Snippet, error) {
	w.query = query
	if w.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return w.snippets, w.err
}

type stubGeocoder struct {
	at    Coordinates
	err   error
	calls atomic.Int32
}

func (g *stubGeocoder) Resolve(context.Context, string) (Coordinates, error) {
	g.calls.Add(1)
	return g.at, g.err
}

type stubFacilities struct {
	nearby     []Facility
	nearbyErr  error
	keyword    []Facility
	keywordErr error

	nearbyCalls  int
	keywordCalls int
	lastKeyword  string
}

func (f *stubFacilities) Nearby(context.Context, Coordinates, int, int) ([]Facility, error) {
	f.nearbyCalls++
	return f.nearby, f.nearbyErr
}

func (f *stubFacilities) ByKeyword(_ context.Context, keyword string, _ int) ([]Facility, error) {
	f.keywordCalls++
	f.lastKeyword = keyword
	return f.keyword, f.keywordErr
}

type memoryStore struct {
	mu   sync.Mutex
	runs map[RunID]*Run
	err  error
}

func (s *memoryStore) SaveRun(_ context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.runs == nil {
		s.runs = map[RunID]*Run{}
	}
	s.runs[run.ID] = run
	return nil
}

func (s *memoryStore) ListRuns(context.Context, RunFilter, SortParams) ([]*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var runs []*Run
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	return runs, s.err
}

func (s *memoryStore) FindRun(_ context.Context, id RunID) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return run, nil
}

func ptr[T any](v T) *T {
	return &v
}

const (
	coughQuestion = "강아지가 기침을 해요"
	coughDocument = "강아지 기침은 켄넬코프 감염이 흔한 원인입니다. 기침이 계속되면 가정에서 습도를 유지하고 휴식을 취하게 하세요. 호흡이 가빠지면 즉시 동물병원에 내원해야 합니다."

	goodAnswer = "요약: 강아지 기침은 켄넬코프 감염이 흔한 원인입니다 [internal:guide/내과].\n" +
		"원인: 켄넬코프 감염이 흔한 원인일 가능성이 높습니다 [internal:guide/내과].\n" +
		"가정에서 습도를 유지하고 휴식을 취하게 하세요 [internal:guide/내과].\n" +
		"호흡이 가빠지면 즉시 동물병원에 내원해야 합니다 [internal:guide/내과].\n" +
		"정확한 진단은 수의사와 상담해 주세요."

	mediocreAnswer = "강아지 기침은 켄넬코프 감염이 흔한 원인입니다. 가정에서 습도를 유지하고 휴식을 취하게 하세요."

	poorAnswer = "잘 모르겠어요."
)

func coughEvidence() EvidenceSet {
	return EvidenceSet{{
		Content:    coughDocument,
		Score:      0.9,
		Source:     "guide",
		Department: "내과",
	}}
}

func coughDocuments() []RetrievalResult {
	return []RetrievalResult{{
		Document: Document{
			ID:      "kb-1",
			Content: coughDocument,
			Metadata: Metadata{
				MetaSourceType: string(SourceTypeArticle),
				MetaSource:     "guide",
				MetaDepartment: "내과",
			},
		},
		Score: 0.88,
	}}
}

func testEvaluator() *QualityEvaluator {
	return newQualityEvaluator(DefaultConfig(), splitOnPunctuation)
}
