package remind

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// reminderKeywords are phrases that signal reminder intent on their own.
var reminderKeywords = []string{
	"remind me", "reminder", "remind us", "alert me",
	"notify me", "ping me", "tell me", "let me know",
	"don't forget", "remember to",
}

// timeIndicators only count as reminder intent when the message is short.
var timeIndicators = []string{
	"in", "at", "tomorrow", "tonight", "later",
	"next week", "next month", "minutes", "hours",
	"days", "weeks",
}

const shortMessageWords = 20

// IsReminderRequest is a permissive advisory gate: false positives are
// fine because extraction failure falls through to the normal chat path.
func IsReminderRequest(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range reminderKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if len(strings.Fields(text)) >= shortMessageWords {
		return false
	}
	for _, ind := range timeIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

// Fixed time-expression patterns, tried in this order (first match wins):
//
//  1. "remind me in N minutes/hours/days/weeks"
//  2. "in N minutes/hours/days/weeks"
//  3. "N minutes/hours/weeks from now"
//  4. bare keywords: tomorrow, tonight, next week, next month
//  5. clock time: "at 3pm", "at 14:00"
//
// The order is a deliberate choice: more specific lead-ins before generic
// relatives, relatives before keywords, keywords before clock times.
var fixedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)remind me (?:in )?(\d+) (minute|hour|day|week)s?`),
	regexp.MustCompile(`(?i)\bin (\d+) (minute|hour|day|week)s?`),
	regexp.MustCompile(`(?i)(\d+) (minute|hour|day|week)s? from now`),
	regexp.MustCompile(`(?i)\b(tomorrow|tonight|next week|next month)\b`),
	regexp.MustCompile(`(?i)\bat (\d{1,2}):?(\d{0,2})\s?(am|pm)?\b`),
}

const (
	patRemindIn = iota
	patIn
	patFromNow
	patKeyword
	patClock
)

// leadInPhrases are stripped from the front of the body. Longer variants
// come before their prefixes so "remind me to x" loses the whole phrase.
var leadInPhrases = []string{
	"remind me to ", "remind me ", "reminder to ", "reminder ",
	"alert me to ", "alert me ", "notify me to ", "notify me ",
	"ping me to ", "ping me ", "tell me to ", "tell me ",
	"let me know to ", "let me know ", "don't forget to ",
	"remember to ",
}

var spaceRun = regexp.MustCompile(`\s+`)

// Parser extracts an absolute future time and residual body from natural
// language. Free-form expressions that the fixed patterns miss go through
// the `when` rule engine.
type Parser struct {
	w *when.Parser
}

func NewParser() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w}
}

// Extract resolves the time expression in text relative to now. It returns
// ok=false when no expression is found or the resolved time is not
// strictly in the future. The returned body has the lead-in phrase and
// time expression stripped; a degenerate residual (under 3 characters)
// falls back to the full original text.
func (p *Parser) Extract(text string, now time.Time) (time.Time, string, bool) {
	fireAt, matched, ok := p.resolveTime(text, now)
	if !ok || !fireAt.After(now) {
		return time.Time{}, "", false
	}
	return fireAt, extractBody(text, matched), true
}

// resolveTime returns the resolved time and the matched substring.
func (p *Parser) resolveTime(text string, now time.Time) (time.Time, string, bool) {
	for i, re := range fixedPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		switch i {
		case patRemindIn, patIn, patFromNow:
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return now.Add(time.Duration(n) * unitDuration(m[2])), m[0], true
		case patKeyword:
			return resolveKeyword(strings.ToLower(m[1]), now), m[0], true
		case patClock:
			t, ok := resolveClock(m, now)
			if !ok {
				continue
			}
			return t, m[0], true
		}
	}

	// No fixed pattern: hand the whole text to the rule engine.
	r, err := p.w.Parse(text, now)
	if err != nil || r == nil {
		return time.Time{}, "", false
	}
	return r.Time, r.Text, true
}

func unitDuration(unit string) time.Duration {
	switch strings.ToLower(unit) {
	case "minute":
		return time.Minute
	case "hour":
		return time.Hour
	case "day":
		return 24 * time.Hour
	case "week":
		return 7 * 24 * time.Hour
	}
	return 0
}

func resolveKeyword(kw string, now time.Time) time.Time {
	switch kw {
	case "tomorrow":
		return now.Add(24 * time.Hour)
	case "tonight":
		t := time.Date(now.Year(), now.Month(), now.Day(), 21, 0, 0, 0, now.Location())
		if !t.After(now) {
			t = t.Add(24 * time.Hour)
		}
		return t
	case "next week":
		return now.AddDate(0, 0, 7)
	case "next month":
		return now.AddDate(0, 1, 0)
	}
	return time.Time{}
}

// resolveClock turns an "at H[:MM][am|pm]" match into a concrete time,
// rolling to the next day when the clock time has already passed.
func resolveClock(m []string, now time.Time) (time.Time, bool) {
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	minute := 0
	if m[2] != "" {
		if minute, err = strconv.Atoi(m[2]); err != nil {
			return time.Time{}, false
		}
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return time.Time{}, false
	}
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !t.After(now) {
		t = t.Add(24 * time.Hour)
	}
	return t, true
}

// extractBody strips the lead-in reminder phrase and time expressions,
// then collapses whitespace.
func extractBody(text, matched string) string {
	content := text
	lower := strings.ToLower(text)
	for _, phrase := range leadInPhrases {
		if idx := strings.Index(lower, phrase); idx >= 0 {
			content = text[idx+len(phrase):]
			break
		}
	}

	for _, re := range fixedPatterns {
		content = re.ReplaceAllString(content, "")
	}
	if matched != "" {
		content = strings.ReplaceAll(content, matched, "")
	}

	content = strings.TrimSpace(spaceRun.ReplaceAllString(content, " "))
	content = strings.Trim(content, " ,.;:")
	if len(content) < 3 {
		return text
	}
	return content
}

// UntilPhrase describes how far away t is, for reminder confirmations.
func UntilPhrase(t time.Time) string {
	return humanize.Time(t)
}
