package petrag

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Stage string

const (
	StagePreprocess     Stage = "PREPROCESS"
	StageClassify       Stage = "CLASSIFY"
	StageRetrieve       Stage = "RETRIEVE"
	StageGrade          Stage = "GRADE"
	StageFallbackSearch Stage = "FALLBACK_SEARCH"
	StageGenerate       Stage = "GENERATE"
	StageEvaluate       Stage = "EVALUATE"
	StageRewrite        Stage = "REWRITE"
	StageLocate         Stage = "LOCATE"
	StageGeneralAnswer  Stage = "GENERAL_ANSWER"
	StageCompose        Stage = "COMPOSE"
	StageEnd            Stage = "END"
)

const (
	facilityIntro        = "요청하신 위치 주변의 동물병원 정보입니다. 응급 상황이라면 방문 전에 전화로 진료 가능 여부를 확인해 주세요."
	facilityNeedLocation = "동물병원을 찾으려면 위치가 필요합니다."
)

// PipelineState is owned by a single Ask call and threaded through every stage.
type PipelineState struct {
	Query         Query
	Intent        IntentResult
	Retrieved     []RetrievalResult
	Grade         GradeResult
	UsedFallback  bool
	Snippets      []Snippet
	Evidence      EvidenceSet
	Used          EvidenceSet
	Answer        string
	Quality       *QualityScore
	RewriteState  RewriteState
	Rewrites      int
	BestEffort    bool
	Geocoded      *Coordinates
	GeocodeFailed bool
	Lookup        FacilityLookup
	Final         string
	Trace         []Stage
}

type Response struct {
	RunID         RunID
	FinalText     string
	RawAnswer     string
	Facilities    []Facility
	EvidenceCount int
	Provenance    Provenance
	UsedFallback  bool
	FallbackCount int
	Intent        IntentResult
	Quality       *QualityScore
	RewriteState  RewriteState
	Rewrites      int
	BestEffort    bool
	Trace         []Stage
}

// Ask runs a question through the pipeline. The only error is ErrInvalidQuery,
// every remote failure degrades into the response instead.
func (s *Service) Ask(ctx context.Context, query Query) (*Response, error) {
	state := &PipelineState{Query: query, RewriteState: RewriteInitial}

	for stage := StagePreprocess; stage != StageEnd; {
		state.Trace = append(state.Trace, stage)

		next, err := s.step(ctx, stage, state)
		if err != nil {
			return nil, err
		}
		stage = next
	}
	state.Trace = append(state.Trace, StageEnd)

	resp := state.response(NewRunID())
	s.saveRun(ctx, state.Query, resp)

	s.logger.Sugar().With(
		"run", resp.RunID,
		"intent", resp.Intent.Intent,
		"provenance", resp.Provenance,
		"evidence", resp.EvidenceCount,
		"rewrites", resp.Rewrites,
		"best_effort", resp.BestEffort,
		"facilities", len(resp.Facilities),
	).Info("answered question")

	return resp, nil
}

func (s *Service) step(ctx context.Context, stage Stage, state *PipelineState) (Stage, error) {
	switch stage {
	case StagePreprocess:
		q, err := state.Query.normalize(s.cfg.FacilityRadius)
		if err != nil {
			return StageEnd, err
		}
		state.Query = q
		return StageClassify, nil

	case StageClassify:
		state.Intent = s.classifier.Classify(ctx, state.Query.Text)
		switch state.Intent.Intent {
		case IntentMedical:
			return StageRetrieve, nil
		case IntentFacilitySearch:
			return StageLocate, nil
		}
		return StageGeneralAnswer, nil

	case StageRetrieve:
		state.Retrieved = s.retriever.Retrieve(ctx, state.Query.Text, s.cfg.TopK)
		return StageGrade, nil

	case StageGrade:
		state.Grade = s.grader.Grade(ctx, state.Query.Text, state.Retrieved)
		if !state.Grade.Sufficient {
			return StageFallbackSearch, nil
		}
		state.Evidence = BuildEvidenceSet(state.Grade, nil, s.cfg.MinDocumentScore)
		return StageGenerate, nil

	case StageFallbackSearch:
		s.fallbackSearch(ctx, state)
		state.Evidence = BuildEvidenceSet(state.Grade, state.Snippets, s.cfg.MinDocumentScore)
		return StageGenerate, nil

	case StageGenerate:
		state.Answer, state.Used = s.generator.Generate(ctx, state.Query.Text, state.Evidence, "")
		if IsInsufficient(state.Answer) {
			return StageLocate, nil
		}
		return StageEvaluate, nil

	case StageEvaluate:
		score := s.evaluator.Evaluate(state.Answer, state.Query.Text, DomainMedical, state.Used)
		state.Quality = &score
		if score.Verdict == VerdictAccept {
			state.RewriteState = RewriteAccepted
			return StageLocate, nil
		}
		return StageRewrite, nil

	case StageRewrite:
		outcome := s.rewriter.Run(ctx, state.Query.Text, DomainMedical, state.Evidence, Attempt{
			Answer: state.Answer,
			Used:   state.Used,
			Score:  *state.Quality,
		})
		state.Answer = outcome.Answer
		state.Quality = &outcome.Score
		state.RewriteState = outcome.State
		state.Rewrites = outcome.Rewrites
		state.BestEffort = outcome.BestEffort
		return StageLocate, nil

	case StageLocate:
		if state.Intent.Intent == IntentFacilitySearch || state.Query.hasLocation() {
			state.Lookup = s.locator.Locate(ctx, FacilityRequest{
				Location:      state.Query.Location,
				Coordinates:   state.Query.Coordinates,
				Radius:        state.Query.Radius,
				Geocoded:      state.Geocoded,
				GeocodeFailed: state.GeocodeFailed,
			})
		}
		return StageCompose, nil

	case StageGeneralAnswer:
		state.Answer = s.generator.Converse(ctx, state.Query.Text)
		state.Final = state.Answer
		return StageEnd, nil

	case StageCompose:
		answer := state.Answer
		if state.Intent.Intent == IntentFacilitySearch {
			answer = facilityIntro
			if !state.Query.hasLocation() {
				answer = facilityNeedLocation
			}
		}
		state.Final = Compose(Composition{
			Provenance:       state.provenance(),
			Answer:           answer,
			BestEffort:       state.BestEffort,
			Snippets:         state.citedSnippets(),
			LocationProvided: state.Query.hasLocation(),
			Facilities:       state.Lookup.Facilities,
		})
		return StageEnd, nil
	}

	return StageEnd, nil
}

// fallbackSearch runs web search and, when the owner gave an address,
// geocodes it at the same time so LOCATE can reuse the coordinates.
func (s *Service) fallbackSearch(ctx context.Context, state *PipelineState) {
	state.UsedFallback = true

	var (
		eg       errgroup.Group
		snippets []Snippet
		geocoded *Coordinates
		geoErr   error
	)
	eg.Go(func() error {
		snippets = s.fallback.Search(ctx, state.Query.Text)
		return nil
	})
	if state.Query.Location != "" && state.Query.Coordinates == nil && s.locator.facilities != nil {
		eg.Go(func() error {
			geocoded, geoErr = s.locator.Geocode(ctx, state.Query.Location)
			return nil
		})
	}
	_ = eg.Wait()

	state.Snippets = snippets
	state.Geocoded = geocoded
	if geoErr != nil {
		s.logger.Sugar().With("error", geoErr, "location", state.Query.Location).Warn("geocoding failed")
		state.GeocodeFailed = true
	}
}

// provenance reflects the evidence the answer was generated from, not
// everything the fallback search returned.
func (state *PipelineState) provenance() Provenance {
	if state.Used.ExternalCount() > 0 {
		return ProvenanceInternalWeb
	}
	return ProvenanceInternal
}

// citedSnippets returns the web snippets that were given to the generator.
func (state *PipelineState) citedSnippets() []Snippet {
	used := make(map[string]struct{})
	for _, item := range state.Used {
		if item.IsExternal {
			used[item.Source] = struct{}{}
		}
	}

	var cited []Snippet
	for _, s := range state.Snippets {
		if _, ok := used[s.URL]; ok {
			cited = append(cited, s)
		}
	}
	return cited
}

func (state *PipelineState) response(id RunID) *Response {
	resp := &Response{
		RunID:         id,
		FinalText:     state.Final,
		RawAnswer:     state.Answer,
		Facilities:    state.Lookup.Facilities,
		EvidenceCount: len(state.Evidence),
		Provenance:    state.provenance(),
		UsedFallback:  state.UsedFallback,
		FallbackCount: len(state.Snippets),
		Intent:        state.Intent,
		Quality:       state.Quality,
		RewriteState:  state.RewriteState,
		Rewrites:      state.Rewrites,
		BestEffort:    state.BestEffort,
		Trace:         state.Trace,
	}
	if resp.Facilities == nil {
		resp.Facilities = []Facility{}
	}
	return resp
}
