package mailbox

import (
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	maildomain "github.com/Black-And-White-Club/malta-bot/app/modules/mail/domain"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

var (
	tagPattern   = regexp.MustCompile(`(?s)<[^>]*>`)
	breakPattern = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>`)
	stylePattern = regexp.MustCompile(`(?is)<(style|script)[^>]*>.*?</(style|script)>`)
)

// maxRead caps how much of a part is read.
const maxRead = 1 << 20

// ExtractBody returns the text of a raw RFC 5322 message, preferring
// text/plain over text/html. Attachments are ignored.
func ExtractBody(r io.Reader) (string, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to read message: %w", err)
	}
	defer mr.Close()

	var plain, rich string
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if plain != "" || rich != "" {
				break
			}
			return "", fmt.Errorf("failed to read message part: %w", err)
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ct, _, _ := h.ContentType()
		b, err := io.ReadAll(io.LimitReader(part.Body, maxRead))
		if err != nil {
			return "", fmt.Errorf("failed to read message part: %w", err)
		}
		switch {
		case plain == "" && (ct == "text/plain" || ct == ""):
			plain = string(b)
		case rich == "" && ct == "text/html":
			rich = string(b)
		}
	}

	if strings.TrimSpace(plain) != "" {
		return maildomain.CleanBody(plain), nil
	}
	return maildomain.CleanBody(stripHTML(rich)), nil
}

func stripHTML(s string) string {
	s = stylePattern.ReplaceAllString(s, "")
	s = breakPattern.ReplaceAllString(s, "\n")
	s = tagPattern.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}
