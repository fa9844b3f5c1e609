package camp

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Durations
const (
	DurationHalf Duration = "half"
	DurationFull Duration = "full"
)

const DefaultBgColor = "bg-gray-100"

var (
	afternoonMarks = []string{"13:", "14:", "15:", "16:"}
	lunchMarks     = []string{"lunch", "午餐"}
	bgColorRegex   = regexp.MustCompile(`bg-[\w-]+`)
	pricePrinter   = message.NewPrinter(language.English)
)

// Duration is the half/full day classification of a camp.
type Duration string

// Label is the single character shown on camp cards.
func (d Duration) Label() string {
	if d == DurationFull {
		return "全"
	}
	return "半"
}

// DurationTag sniffs the camp timetable for afternoon hours or lunch.
// It is a best-effort heuristic, not a timetable parser: a row makes the camp DurationFull
// when its time label starts with an hour >= 13 or contains "13:" to "16:",
// or when the row, serialized and lowercased, mentions lunch.
// Rows are searched grid first, then gridWeek1, then gridWeek2.
func DurationTag(c Camp) Duration {
	for _, row := range c.Details.Rows() {
		if row.Time != "" && isAfternoon(row.Time) {
			return DurationFull
		}
		if mentionsLunch(row) {
			return DurationFull
		}
	}
	return DurationHalf
}

func isAfternoon(label string) bool {
	if hour, ok := leadingInt(label); ok && hour >= 13 {
		return true
	}
	for _, mark := range afternoonMarks {
		if strings.Contains(label, mark) {
			return true
		}
	}
	return false
}

func mentionsLunch(row GridRow) bool {
	data, err := json.Marshal(row)
	if err != nil {
		return false
	}
	s := strings.ToLower(string(data))
	for _, mark := range lunchMarks {
		if strings.Contains(s, mark) {
			return true
		}
	}
	return false
}

// leadingInt parses the integer prefix of s the way a lenient parseInt does:
// leading whitespace and one sign are skipped, parsing stops at the first non digit.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n < 1<<30 {
			n = n*10 + int(s[i]-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// IsAvailableInWeek reports whether the camp can be booked in the given week.
// A camp without available weeks is unavailable everywhere.
func IsAvailableInWeek(c Camp, week WeekID) bool {
	for _, w := range c.AvailableWeeks {
		if w == week {
			return true
		}
	}
	return false
}

// ExtractPrimaryColorToken returns the first `bg-*` class of a style specifier, or DefaultBgColor.
func ExtractPrimaryColorToken(colorSpec string) string {
	if colorSpec == "" {
		return DefaultBgColor
	}
	if match := bgColorRegex.FindString(colorSpec); match != "" {
		return match
	}
	return DefaultBgColor
}

// FilterByCategory keeps the camps of the given category, in order. CategoryAll keeps everything.
func FilterByCategory(camps []Camp, category Category) []Camp {
	if category == CategoryAll {
		return camps
	}
	filtered := make([]Camp, 0, len(camps))
	for _, c := range camps {
		if c.Category == category {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// FormatPrice renders a price as shown in the header total, eg. "$7,500".
func FormatPrice(price int) string {
	if price == 0 {
		return "$0"
	}
	return pricePrinter.Sprintf("$%d", price)
}
