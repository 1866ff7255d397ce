package bot

import (
	"fmt"
	"regexp"
	"time"

	"canteen-bot/internal/model"
)

// Surname with a capital letter, then two capitalized initials with
// periods: "Иванов И.И.".
var namePattern = regexp.MustCompile(`^[А-ЯЁ][а-яё]+\s+[А-ЯЁ]\.[А-ЯЁ]\.$`)

func validFullName(s string) bool {
	return namePattern.MatchString(s)
}

// Accepted date inputs, most specific first. Two-digit years resolve
// per time.Parse ("25" -> 2025).
var dateLayouts = []string{
	"02.01.2006",
	"02.01.06",
	"02/01/2006",
	"02/01/06",
	model.DateLayout,
}

func parseMealDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// dateOnly strips the clock and zone, leaving a comparable calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (b *Bot) isCanteen(s string) bool {
	for _, c := range b.cfg.Canteens {
		if s == c {
			return true
		}
	}
	return false
}
