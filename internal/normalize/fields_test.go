package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripSentinel(t *testing.T) {
	assert.Nil(t, StripSentinel("-"))
	assert.Nil(t, StripSentinel([]string{}))
	assert.Nil(t, StripSentinel([]any{}))
	assert.Equal(t, "Drame", StripSentinel("Drame"))
	assert.Equal(t, []string{"Jane Doe"}, StripSentinel([]string{"Jane Doe"}))
	assert.Equal(t, 42, StripSentinel(42))
	assert.Nil(t, StripSentinel(nil))
}

func TestStripSentinelIsIdempotent(t *testing.T) {
	values := []any{"-", "", []string{}, []string{"De", "Jane Doe"}, "2h15min", 42, nil}
	for _, value := range values {
		once := StripSentinel(value)
		assert.Equal(t, once, StripSentinel(once))
	}
}

func TestParseDuration(t *testing.T) {
	duration := ParseDuration("2h15min")
	assert.NotNil(t, duration)
	assert.Equal(t, 135, *duration)

	duration = ParseDuration("1h 40min")
	assert.NotNil(t, duration)
	assert.Equal(t, 100, *duration)

	assert.Nil(t, ParseDuration(""))
	assert.Nil(t, ParseDuration("140 minutes"))
}

func TestParseReleaseDate(t *testing.T) {
	assert.Equal(t, "2024-04-03", ParseReleaseDate("3 avril 2024"))
	assert.Equal(t, "1999-12-25", ParseReleaseDate("25 décembre 1999"))
	assert.Equal(t, "2022-08-10", ParseReleaseDate("10 août 2022"))
	// Dates already in English parse on the first attempt
	assert.Equal(t, "2024-04-03", ParseReleaseDate("3 April 2024"))
	// Unparseable input falls back to the original text
	assert.Equal(t, "not a date", ParseReleaseDate("not a date"))
	assert.Equal(t, "", ParseReleaseDate(""))
}

func TestParseReleaseDateAllMonths(t *testing.T) {
	assert.Equal(t, "2024-01-01", ParseReleaseDate("1 janvier 2024"))
	assert.Equal(t, "2024-02-02", ParseReleaseDate("2 février 2024"))
	assert.Equal(t, "2024-03-03", ParseReleaseDate("3 mars 2024"))
	assert.Equal(t, "2024-04-04", ParseReleaseDate("4 avril 2024"))
	assert.Equal(t, "2024-05-05", ParseReleaseDate("5 mai 2024"))
	assert.Equal(t, "2024-06-06", ParseReleaseDate("6 juin 2024"))
	assert.Equal(t, "2024-07-07", ParseReleaseDate("7 juillet 2024"))
	assert.Equal(t, "2024-08-08", ParseReleaseDate("8 août 2024"))
	assert.Equal(t, "2024-09-09", ParseReleaseDate("9 septembre 2024"))
	assert.Equal(t, "2024-10-10", ParseReleaseDate("10 octobre 2024"))
	assert.Equal(t, "2024-11-11", ParseReleaseDate("11 novembre 2024"))
	assert.Equal(t, "2024-12-12", ParseReleaseDate("12 décembre 2024"))
}

func TestParseThousandsInt(t *testing.T) {
	entries := ParseThousandsInt("1 234 567")
	assert.NotNil(t, entries)
	assert.Equal(t, 1234567, *entries)

	budget := ParseThousandsInt("25 000 000 €")
	assert.NotNil(t, budget)
	assert.Equal(t, 25000000, *budget)

	passthrough := ParseThousandsInt(300)
	assert.NotNil(t, passthrough)
	assert.Equal(t, 300, *passthrough)

	assert.Nil(t, ParseThousandsInt(nil))
	assert.Nil(t, ParseThousandsInt("n/a"))
}

func TestParseSessionCount(t *testing.T) {
	sessions := ParseSessionCount("312 séances")
	assert.NotNil(t, sessions)
	assert.Equal(t, 312, *sessions)

	passthrough := ParseSessionCount(250)
	assert.NotNil(t, passthrough)
	assert.Equal(t, 250, *passthrough)

	assert.Nil(t, ParseSessionCount(nil))
	assert.Nil(t, ParseSessionCount("aucune"))
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "Un film sur le cinéma", CollapseWhitespace("  Un film\n\tsur   le cinéma "))
	assert.Equal(t, "", CollapseWhitespace("   \n\t "))
}
