package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Sentinel is the marker the scraped source uses for "no data".
const Sentinel = "-"

var (
	durationRegex   = regexp.MustCompile(`(\d+)h\s*(\d+)min`)
	digitsRegex     = regexp.MustCompile(`\d+`)
	nonDigitsRegex  = regexp.MustCompile(`\D`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// frenchMonths pairs full French month names with the English names the date
// layout understands, in calendar order so substitution is deterministic.
var frenchMonths = []struct{ fr, en string }{
	{"janvier", "January"},
	{"février", "February"},
	{"mars", "March"},
	{"avril", "April"},
	{"mai", "May"},
	{"juin", "June"},
	{"juillet", "July"},
	{"août", "August"},
	{"septembre", "September"},
	{"octobre", "October"},
	{"novembre", "November"},
	{"décembre", "December"},
}

const releaseDateLayout = "2 January 2006"

// StripSentinel maps the dash marker and empty lists to nil, and passes every
// other value through unchanged. It is idempotent.
func StripSentinel(value any) any {
	switch v := value.(type) {
	case string:
		if v == Sentinel {
			return nil
		}
	case []string:
		if len(v) == 0 {
			return nil
		}
	case []any:
		if len(v) == 0 {
			return nil
		}
	}
	return value
}

// ParseDuration converts a "<H>h<M>min" text to minutes. Returns nil when the
// pattern is not found.
func ParseDuration(text string) *int {
	match := durationRegex.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	total := hours*60 + minutes
	return &total
}

// ParseReleaseDate converts a "3 avril 2024" text to its ISO form. A first
// parse handles dates already using English month names; on failure the French
// month token is substituted and the parse retried once. If both attempts fail
// the original text is returned unchanged.
func ParseReleaseDate(text string) string {
	if date, err := time.Parse(releaseDateLayout, text); err == nil {
		return date.Format("2006-01-02")
	}
	for _, month := range frenchMonths {
		if strings.Contains(text, month.fr) {
			if date, err := time.Parse(releaseDateLayout, strings.Replace(text, month.fr, month.en, 1)); err == nil {
				return date.Format("2006-01-02")
			}
			break
		}
	}
	return text
}

// ParseThousandsInt converts an entry count or budget figure to an integer,
// stripping currency symbols and thousands separators. Integers pass through,
// nil stays nil.
func ParseThousandsInt(value any) *int {
	switch v := value.(type) {
	case nil:
		return nil
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	case float64:
		// JSON numbers decode as float64
		n := int(v)
		return &n
	case string:
		digits := nonDigitsRegex.ReplaceAllString(v, "")
		n, err := strconv.Atoi(digits)
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}

// ParseSessionCount extracts the first run of digits from a session count text
// such as "312 séances". Integers pass through, nil stays nil.
func ParseSessionCount(value any) *int {
	switch v := value.(type) {
	case nil:
		return nil
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	case float64:
		n := int(v)
		return &n
	case string:
		digits := digitsRegex.FindString(v)
		if digits == "" {
			return nil
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}

// CollapseWhitespace replaces every run of whitespace with a single space and
// trims both ends.
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}
