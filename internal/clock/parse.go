package clock

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var (
	// ErrNotInFuture is returned when parsed input resolves to a past time.
	ErrNotInFuture = errors.New("time must be in the future")
	// ErrUnrecognized is returned when no rule matches the input.
	ErrUnrecognized = errors.New("could not recognize time")
)

var compactTime = regexp.MustCompile(`(\d{1,2})(\d{2})(am|pm)`)

// Parser turns natural-language input ("tomorrow at 8pm", "in 2 hours") into times.
type Parser struct {
	w *when.Parser
}

// NewParser builds a parser with the English and common rule sets.
func NewParser() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w}
}

// ParseFuture resolves input relative to clk's now in loc and requires the
// result to lie in the future.
func (p *Parser) ParseFuture(input string, loc *time.Location, clk Clock) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	now := clk.Now().In(loc)

	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.ReplaceAll(normalized, "today ", "today at ")
	normalized = compactTime.ReplaceAllString(normalized, "$1:$2 $3")

	r, err := p.w.Parse(normalized, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrUnrecognized, input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, input)
	}

	parsed := r.Time.In(loc).Truncate(time.Minute)
	if !parsed.After(now.Truncate(time.Minute)) {
		return time.Time{}, fmt.Errorf("%w (parsed: %s, now: %s)", ErrNotInFuture, parsed.Format(time.RFC3339), now.Format(time.RFC3339))
	}
	return parsed.UTC(), nil
}
