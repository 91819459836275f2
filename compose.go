package petrag

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Provenance string

const (
	ProvenanceInternal    Provenance = "internal"
	ProvenanceInternalWeb Provenance = "internal+web"
)

func (p Provenance) label() string {
	if p == ProvenanceInternalWeb {
		return "internal+web"
	}
	return "internal-only"
}

const (
	maxComposedSnippets = 3
	snippetPreviewRunes = 200
	noFacilitiesNotice  = "조건에 맞는 동물병원을 찾지 못했습니다."
	noLocationHint      = "위치(주소 또는 좌표)를 함께 알려주시면 주변 동물병원을 찾아드립니다."
)

// Composition is everything the final response is rendered from.
type Composition struct {
	Provenance Provenance
	Answer     string
	BestEffort bool
	Snippets   []Snippet
	// LocationProvided is set when the question came with an address or coordinates.
	LocationProvided bool
	Facilities       []Facility
}

// Compose renders the final response. It is a pure function of c.
func Compose(c Composition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[근거 출처: %s]\n\n", c.Provenance.label())

	if c.BestEffort {
		b.WriteString(BestEffortMarker)
		b.WriteString("\n\n")
	}
	answer := strings.TrimSpace(c.Answer)
	if answer == "" {
		answer = InsufficientEvidence
	}
	b.WriteString(answer)
	b.WriteString("\n")

	if len(c.Snippets) > 0 {
		b.WriteString("\n[웹 검색 참고 자료]\n")
		for i, s := range c.Snippets[:min(len(c.Snippets), maxComposedSnippets)] {
			fmt.Fprintf(&b, "%d. %s - %s\n   출처: %s\n", i+1, s.Title, preview(s.Content), s.URL)
		}
	}

	b.WriteString("\n[주변 동물병원]\n")
	if len(c.Facilities) == 0 {
		b.WriteString(noFacilitiesNotice)
		if !c.LocationProvided {
			b.WriteString(" ")
			b.WriteString(noLocationHint)
		}
		b.WriteString("\n")
	}
	for i, f := range c.Facilities {
		fmt.Fprintf(&b, "%d. %s (%s) - %s", i+1, f.Name, formatDistance(f.Distance), f.Address)
		if f.Phone != "" {
			fmt.Fprintf(&b, ", %s", f.Phone)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func preview(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(content) <= snippetPreviewRunes {
		return content
	}
	return string([]rune(content)[:snippetPreviewRunes]) + "..."
}

func formatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1fkm", meters/1000)
	}
	return fmt.Sprintf("%.0fm", meters)
}
