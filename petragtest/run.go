package petragtest

import (
	"time"

	"github.com/RichardKnop/petrag"
)

type RunOption func(*petrag.Run)

func WithRunIntent(intent petrag.Intent) RunOption {
	return func(r *petrag.Run) {
		r.Intent = intent
	}
}

func WithRunBestEffort(bestEffort bool) RunOption {
	return func(r *petrag.Run) {
		r.BestEffort = bestEffort
		if bestEffort {
			r.RewriteState = petrag.RewriteEscalated
		}
	}
}

func WithRunQualityAverage(average float64) RunOption {
	return func(r *petrag.Run) {
		r.QualityAverage = average
	}
}

func WithRunCreated(created time.Time) RunOption {
	return func(r *petrag.Run) {
		r.Created = created.UTC()
	}
}

var intents = []petrag.Intent{
	petrag.IntentMedical,
	petrag.IntentFacilitySearch,
	petrag.IntentGeneral,
}

func (g *DataGen) Run(options ...RunOption) *petrag.Run {
	aRun := petrag.Run{
		ID:             petrag.NewRunID(),
		Question:       g.Question(),
		Location:       g.City(),
		Intent:         intents[g.IntRange(0, len(intents)-1)],
		IntentTier:     petrag.TierHeuristic,
		Provenance:     petrag.ProvenanceInternal,
		EvidenceCount:  g.IntRange(0, 3),
		QualityAverage: g.Float64Range(0, 1),
		Verdict:        petrag.VerdictAccept,
		RewriteState:   petrag.RewriteAccepted,
		FacilityCount:  g.IntRange(0, 10),
		FinalText:      g.Paragraph(1, 3, 10, "\n"),
		Trace:          []petrag.Stage{petrag.StagePreprocess, petrag.StageClassify, petrag.StageEnd},
		Created:        g.now,
	}

	for _, o := range options {
		o(&aRun)
	}

	return &aRun
}
