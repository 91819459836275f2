package petrag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompose(t *testing.T) {
	t.Parallel()

	t.Run("internal answer with facilities", func(t *testing.T) {
		t.Parallel()

		out := Compose(Composition{
			Provenance:       ProvenanceInternal,
			Answer:           "답변 본문",
			LocationProvided: true,
			Facilities: []Facility{
				{Name: "행복동물병원", Address: "서울 강남구", Phone: "02-000-0000", Distance: 120},
				{Name: "24시 동물의료센터", Address: "서울 서초구", Distance: 1530},
			},
		})

		assert.Equal(t, "[근거 출처: internal-only]\n\n"+
			"답변 본문\n"+
			"\n[주변 동물병원]\n"+
			"1. 행복동물병원 (120m) - 서울 강남구, 02-000-0000\n"+
			"2. 24시 동물의료센터 (1.5km) - 서울 서초구\n", out)
	})

	t.Run("web evidence and best effort marker", func(t *testing.T) {
		t.Parallel()

		snippets := []Snippet{
			{Title: "a", Content: "aa", URL: "https://a.example"},
			{Title: "b", Content: strings.Repeat("가", 300), URL: "https://b.example"},
			{Title: "c", Content: "cc", URL: "https://c.example"},
			{Title: "d", Content: "dd", URL: "https://d.example"},
		}

		out := Compose(Composition{
			Provenance: ProvenanceInternalWeb,
			Answer:     "답변",
			BestEffort: true,
			Snippets:   snippets,
		})

		assert.True(t, strings.HasPrefix(out, "[근거 출처: internal+web]\n\n"+BestEffortMarker+"\n\n답변\n"))
		assert.Contains(t, out, "출처: https://c.example")
		assert.NotContains(t, out, "https://d.example")
		assert.Contains(t, out, strings.Repeat("가", snippetPreviewRunes)+"...")
		assert.Contains(t, out, noFacilitiesNotice+" "+noLocationHint)
	})

	t.Run("never omits the answer body", func(t *testing.T) {
		t.Parallel()

		out := Compose(Composition{Answer: "  "})
		assert.Contains(t, out, "[근거 출처: internal-only]")
		assert.Contains(t, out, InsufficientEvidence)
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		c := Composition{Provenance: ProvenanceInternalWeb, Answer: "답변", Snippets: []Snippet{{Title: "a", URL: "u"}}}
		assert.Equal(t, Compose(c), Compose(c))
	})
}
