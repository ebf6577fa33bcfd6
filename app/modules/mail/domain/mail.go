// Package maildomain holds the application email rules.
package maildomain

import (
	"strings"
	"time"
)

// MaxBody is the longest body forwarded to Discord, in runes.
const MaxBody = 4000

// DefaultSubjectFilter selects application emails.
const DefaultSubjectFilter = "application"

// Application is one email to forward.
type Application struct {
	UID       uint32
	MessageID string
	Subject   string
	From      string
	Date      time.Time
	Body      string
}

// Key identifies the email for deduplication. Emails without a Message-ID fall
// back to sender, subject and date.
func (a Application) Key() string {
	if id := strings.Trim(strings.TrimSpace(a.MessageID), "<>"); id != "" {
		return id
	}
	return strings.ToLower(a.From) + "|" + a.Subject + "|" + a.Date.UTC().Format(time.RFC3339)
}

// MatchesSubject reports whether subject contains filter, ignoring case. An
// empty filter matches everything.
func MatchesSubject(subject, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(subject), strings.ToLower(filter))
}

// CleanBody normalizes line endings and trims blank runs.
func CleanBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, l := range lines {
		l = strings.TrimRight(l, " \t")
		if l == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
