package cnj

import (
	"fmt"
	"strconv"
	"strings"
)

// UnknownJurisdiction is returned when the number cannot be classified
const UnknownJurisdiction = "unknown"

// Classification contains the parsed components of a CNJ case number
// National format (20 digits total): NNNNNNN-DD.AAAA.J.TR.OOOO
// NNNNNNN = sequential, DD = check digits, AAAA = year, J = segment,
// TR = court code, OOOO = origin unit
type Classification struct {
	Valid bool

	Sequential  string // 7 digits (positions 0-6)
	CheckDigits string // 2 digits (positions 7-8)
	Year        string // 4 digits (positions 9-12)
	Segment     string // 1 digit (position 13)
	CourtCode   string // 2 digits (positions 14-15)
	OriginUnit  string // 4 digits (positions 16-19)

	SegmentName       string // Branch of justice, empty if unknown segment
	JurisdictionLabel string // "SP", "TRF3", "TRT2", ... or "unknown"
}

// Classify parses a CNJ case number in masked or bare numeric form and
// derives its jurisdiction. It is total: malformed input yields
// Valid=false and JurisdictionLabel="unknown", never an error.
func Classify(caseNumber string) Classification {
	digits := stripNonDigits(caseNumber)

	if len(digits) != 20 {
		return Classification{Valid: false, JurisdictionLabel: UnknownJurisdiction}
	}

	c := Classification{
		Valid:       true,
		Sequential:  digits[0:7],
		CheckDigits: digits[7:9],
		Year:        digits[9:13],
		Segment:     digits[13:14],
		CourtCode:   digits[14:16],
		OriginUnit:  digits[16:20],
	}

	if name, ok := SegmentName(c.Segment); ok {
		c.SegmentName = name
	}
	c.JurisdictionLabel = jurisdictionLabel(c.Segment, c.CourtCode)

	return c
}

// Format renders the canonical masked form (NNNNNNN-DD.AAAA.J.TR.OOOO).
// Returns the empty string for numbers that do not classify as valid.
func Format(caseNumber string) string {
	c := Classify(caseNumber)
	if !c.Valid {
		return ""
	}
	return c.Masked()
}

// Masked renders the classification back into the canonical masked form
func (c Classification) Masked() string {
	return fmt.Sprintf("%s-%s.%s.%s.%s.%s",
		c.Sequential, c.CheckDigits, c.Year, c.Segment, c.CourtCode, c.OriginUnit)
}

// CourtAbbreviation derives the tribunal sigla from the classification:
// "TJSP" for state courts, the jurisdiction label itself everywhere else.
func (c Classification) CourtAbbreviation() string {
	if !c.Valid {
		return ""
	}
	if c.Segment == SegmentState {
		if uf, ok := StateAbbreviation(c.CourtCode); ok {
			return "TJ" + uf
		}
	}
	return c.JurisdictionLabel
}

// jurisdictionLabel maps (segment, courtCode) to a court abbreviation.
// Pairs with no table entry keep the raw "J.TR" form so nothing is lost.
func jurisdictionLabel(segment, courtCode string) string {
	switch segment {
	case SegmentSTF:
		return "STF"
	case SegmentCNJ:
		return "CNJ"
	case SegmentSTJ:
		return "STJ"
	case SegmentMilitary:
		return "STM"
	case SegmentState:
		if uf, ok := StateAbbreviation(courtCode); ok {
			return uf
		}
	case SegmentFederal:
		if n, err := strconv.Atoi(courtCode); err == nil && n >= 1 && n <= 6 {
			return fmt.Sprintf("TRF%d", n)
		}
	case SegmentLabor:
		if n, err := strconv.Atoi(courtCode); err == nil && n >= 1 && n <= 24 {
			return fmt.Sprintf("TRT%d", n)
		}
	case SegmentElectoral:
		if uf, ok := StateAbbreviation(courtCode); ok {
			return "TRE-" + uf
		}
	case SegmentStateMil:
		if label, ok := stateMilitaryCourtCodes[courtCode]; ok {
			return label
		}
	}

	return segment + "." + courtCode
}

// stripNonDigits removes the mask characters, keeping only digits
func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
