package cnj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Run("State court masked number", func(t *testing.T) {
		c := Classify("1234567-89.2024.8.26.0100")
		assert.True(t, c.Valid)
		assert.Equal(t, "1234567", c.Sequential)
		assert.Equal(t, "89", c.CheckDigits)
		assert.Equal(t, "2024", c.Year)
		assert.Equal(t, "8", c.Segment)
		assert.Equal(t, "26", c.CourtCode)
		assert.Equal(t, "0100", c.OriginUnit)
		assert.Equal(t, "SP", c.JurisdictionLabel)
		assert.Equal(t, "Justiça Estadual", c.SegmentName)
	})

	t.Run("Bare digits classify the same as masked", func(t *testing.T) {
		masked := Classify("1234567-89.2024.8.26.0100")
		bare := Classify("12345678920248260100")
		assert.Equal(t, masked, bare)
	})

	t.Run("Federal court", func(t *testing.T) {
		c := Classify("0001234-56.2023.4.03.6100")
		assert.True(t, c.Valid)
		assert.Equal(t, "TRF3", c.JurisdictionLabel)
		assert.Equal(t, "Justiça Federal", c.SegmentName)
	})

	t.Run("Labor court", func(t *testing.T) {
		c := Classify("0010500-11.2022.5.02.0030")
		assert.True(t, c.Valid)
		assert.Equal(t, "TRT2", c.JurisdictionLabel)
	})

	t.Run("Electoral court", func(t *testing.T) {
		c := Classify("0000600-25.2020.6.19.0001")
		assert.True(t, c.Valid)
		assert.Equal(t, "TRE-RJ", c.JurisdictionLabel)
	})

	t.Run("Superior courts", func(t *testing.T) {
		assert.Equal(t, "STF", Classify("0000001-02.2021.1.00.0000").JurisdictionLabel)
		assert.Equal(t, "STJ", Classify("0000001-02.2021.3.00.0000").JurisdictionLabel)
		assert.Equal(t, "STM", Classify("0000001-02.2021.7.00.0000").JurisdictionLabel)
	})

	t.Run("State military justice", func(t *testing.T) {
		assert.Equal(t, "TJM-SP", Classify("0000001-02.2021.9.26.0000").JurisdictionLabel)
	})

	t.Run("Unmapped pair keeps segment.court form", func(t *testing.T) {
		// Federal segment has no court 09
		c := Classify("0001234-56.2023.4.09.6100")
		assert.True(t, c.Valid)
		assert.Equal(t, "4.09", c.JurisdictionLabel)
	})

	t.Run("All 27 state codes are mapped", func(t *testing.T) {
		assert.Len(t, stateCourtCodes, 27)
		for code, uf := range stateCourtCodes {
			c := Classify("1234567-89.2024.8." + code + ".0100")
			assert.True(t, c.Valid)
			assert.Equal(t, uf, c.JurisdictionLabel)
		}
	})

	t.Run("Malformed input never panics", func(t *testing.T) {
		for _, input := range []string{
			"",
			"123",
			"1234567-89.2024.8.26.01000",   // 21 digits
			"1234567-89.2024.8.26.010",     // 19 digits
			"abcdefg-hi.jklm.n.op.qrst",    // no digits at all
			"não é um número de processo ", // free text
		} {
			c := Classify(input)
			assert.False(t, c.Valid, "input %q should be invalid", input)
			assert.Equal(t, UnknownJurisdiction, c.JurisdictionLabel)
		}
	})

	t.Run("Pure function - repeatable", func(t *testing.T) {
		a := Classify("1234567-89.2024.8.26.0100")
		b := Classify("1234567-89.2024.8.26.0100")
		assert.Equal(t, a, b)
	})
}

func TestFormat(t *testing.T) {
	t.Run("Bare digits get the canonical mask", func(t *testing.T) {
		assert.Equal(t, "1234567-89.2024.8.26.0100", Format("12345678920248260100"))
	})

	t.Run("Already masked stays identical", func(t *testing.T) {
		assert.Equal(t, "1234567-89.2024.8.26.0100", Format("1234567-89.2024.8.26.0100"))
	})

	t.Run("Invalid input yields empty string", func(t *testing.T) {
		assert.Equal(t, "", Format("12345"))
	})
}
