package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumarlokesh/anu-converter/internal/converter"
	"github.com/kumarlokesh/anu-converter/internal/mapping"
	"github.com/kumarlokesh/anu-converter/internal/validate"
)

func TestRoundTrip_InversePair(t *testing.T) {
	a2u := mapping.Mapping{
		"A":  "అ",
		"K":  "క",
		"Kx": "క్ష",
		"M":  "మ",
	}
	forward := converter.New(a2u)
	backward := converter.New(a2u.Invert())

	res := validate.RoundTrip(forward, backward, validate.Samples(forward))
	assert.True(t, res.OK())
	assert.Equal(t, 4, res.Checked)

	text := "KxAM, K!"
	mid := forward.Convert(text)
	assert.Equal(t, "క్షఅమ, క!", mid)
	assert.Equal(t, text, backward.Convert(mid))
}

func TestRoundTrip_ReportsMismatches(t *testing.T) {
	forward := converter.New(mapping.Mapping{
		"A": "అ",
		"B": "అ",
	})
	backward := converter.New(mapping.Mapping{"అ": "A"})

	res := validate.RoundTrip(forward, backward, validate.Samples(forward))
	require.False(t, res.OK())
	assert.Equal(t, []validate.Mismatch{
		{Sample: "B", Intermediate: "అ", Got: "A"},
	}, res.Mismatches)
}

func TestSamples(t *testing.T) {
	e := converter.New(mapping.Mapping{"b": "2", "a": "1", "ab": "3", "": "x"})
	assert.Equal(t, []string{"a", "ab", "b"}, validate.Samples(e))
	assert.Empty(t, validate.Samples(converter.New(nil)))
}

func TestRoundTrip_EmptyTablesAreTriviallyInverse(t *testing.T) {
	empty := converter.New(nil)
	res := validate.RoundTrip(empty, empty, []string{"anything", ""})
	assert.True(t, res.OK())
}
