package schema

import (
	"fmt"
	"regexp"
	"time"
)

// Disclaimer is the fixed legal notice attached to every synthesis record.
const Disclaimer = "This preliminary analysis is generated automatically and " +
	"does not constitute legal advice. Review by a licensed lawyer is required " +
	"before any action is taken."

var protocolPattern = regexp.MustCompile(`^LITGO-[0-9]{4}-[0-9]{4,}$`)

// FormatProtocolNumber builds a protocol number in format LITGO-{year}-{seq},
// with the sequence zero-padded to four digits.
func FormatProtocolNumber(year int, seq int64) string {
	return fmt.Sprintf("LITGO-%04d-%04d", year, seq)
}

// ValidProtocolNumber reports whether s matches the protocol number format.
func ValidProtocolNumber(s string) bool {
	return protocolPattern.MatchString(s)
}

// SynthesisRecord is the final structured output of the triage flow.
// Created once when the answer set is complete; immutable afterward.
type SynthesisRecord struct {
	ProtocolNumber   string    `json:"protocol_number" yaml:"protocol_number"`
	GeneratedAt      time.Time `json:"generated_at" yaml:"generated_at"`
	LegalArea        string    `json:"legal_area" yaml:"legal_area"`
	Urgency          Urgency   `json:"urgency" yaml:"urgency"`
	Summary          string    `json:"summary" yaml:"summary"`
	FullAnalysisText string    `json:"full_analysis_text" yaml:"full_analysis_text"`
	Disclaimer       string    `json:"disclaimer" yaml:"disclaimer"`
}

// HandoffReceipt acknowledges that a synthesis record was handed to the
// case-assignment collaborator. The token is what the UI navigates with.
type HandoffReceipt struct {
	Token          string    `json:"token" yaml:"token"`
	ProtocolNumber string    `json:"protocol_number" yaml:"protocol_number"`
	AcknowledgedAt time.Time `json:"acknowledged_at" yaml:"acknowledged_at"`
}
