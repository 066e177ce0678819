// Package synthesis turns a fully answered triage session into its final
// structured legal synthesis: a unique protocol number plus a deterministic
// narrative built from the analysis, the recorded answers and the per-area
// catalog.
package synthesis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"litgo/internal/catalog"
	"litgo/pkg/schema"
)

const nextStepsParagraph = "Next steps: this synthesis will be forwarded to a " +
	"lawyer specialized in the identified area. The lawyer will review the " +
	"facts and documents, confirm the preliminary assessment and contact the " +
	"client to define the strategy for the case."

// Generator builds synthesis records. The narrative is deterministic given
// the same session; only the protocol number and timestamp vary.
type Generator struct {
	allocator ProtocolAllocator
	catalog   *catalog.Catalog
	now       func() time.Time
}

// NewGenerator creates a generator. A nil now function uses the wall clock.
func NewGenerator(allocator ProtocolAllocator, cat *catalog.Catalog, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{allocator: allocator, catalog: cat, now: now}
}

// Synthesize produces the synthesis record for a session whose answer set is
// complete. It does not mutate the session; recorded answers and the
// analysis survive an allocation failure so the call is retry-safe.
func (g *Generator) Synthesize(ctx context.Context, session *schema.TriageSession) (*schema.SynthesisRecord, error) {
	if session.Analysis == nil {
		return nil, fmt.Errorf("session %s has no analysis", session.ID)
	}
	if !session.AnswersComplete() {
		return nil, fmt.Errorf("session %s has unanswered questions", session.ID)
	}

	generatedAt := g.now().UTC()
	year := generatedAt.Year()

	seq, err := g.allocator.Next(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("allocate protocol number: %w", err)
	}

	return &schema.SynthesisRecord{
		ProtocolNumber:   schema.FormatProtocolNumber(year, seq),
		GeneratedAt:      generatedAt,
		LegalArea:        session.Analysis.LegalArea,
		Urgency:          session.Analysis.Urgency,
		Summary:          session.Analysis.Summary,
		FullAnalysisText: g.buildAnalysisText(session),
		Disclaimer:       schema.Disclaimer,
	}, nil
}

// buildAnalysisText assembles the narrative sections in fixed order:
// restated facts, identified area, candidate rights, document checklist and
// the next-steps paragraph.
func (g *Generator) buildAnalysisText(session *schema.TriageSession) string {
	analysis := session.Analysis
	profile := g.catalog.Profile(analysis.LegalArea)

	var sb strings.Builder

	sb.WriteString("FACTS PRESENTED\n")
	sb.WriteString(fmt.Sprintf("The client reports: %s\n", session.Submission.CaseDescription))
	sb.WriteString(fmt.Sprintf("Preliminary assessment: %s\n", analysis.Summary))

	if len(session.Questions) > 0 {
		sb.WriteString("\nINTAKE ANSWERS\n")
		for _, q := range session.Questions {
			sb.WriteString(fmt.Sprintf("- %s %s\n", q.Prompt, session.Answers[q.ID]))
		}
	}

	sb.WriteString("\nIDENTIFIED AREA\n")
	sb.WriteString(fmt.Sprintf("%s (urgency: %s)\n", analysis.LegalArea, analysis.Urgency))

	sb.WriteString("\nRIGHTS POTENTIALLY INVOLVED\n")
	for _, right := range profile.Rights {
		sb.WriteString(fmt.Sprintf("- %s\n", right))
	}

	sb.WriteString("\nREQUIRED DOCUMENTS\n")
	for _, doc := range profile.Documents {
		sb.WriteString(fmt.Sprintf("- %s\n", doc))
	}

	sb.WriteString("\n")
	sb.WriteString(nextStepsParagraph)

	return sb.String()
}
