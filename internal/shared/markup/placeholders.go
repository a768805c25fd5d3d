package markup

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// RenderContext carries the sender/chat fields placeholders draw from.
type RenderContext struct {
	FirstName     string
	LastName      string
	Username      string
	UserID        int64
	ChatTitle     string
	ChatIsPrivate bool
}

var placeholderRegex = regexp.MustCompile(`\{(\w+)\}`)

// Render substitutes the recognized placeholders ({first}, {last},
// {fullname}, {username}, {mention}, {chatname}, {id}) into template.
// Unrecognized or malformed brace sequences pass through literally. The
// second return value is false when the template contains brace syntax but
// no recognized placeholder was substituted; callers treat that as an
// effectively-empty body.
func Render(template string, ctx RenderContext) (string, bool) {
	if !strings.ContainsAny(template, "{}") {
		return template, true
	}

	replaced := 0
	out := placeholderRegex.ReplaceAllStringFunc(template, func(m string) string {
		val, ok := ctx.value(m[1 : len(m)-1])
		if !ok {
			return m
		}
		replaced++
		return val
	})

	return out, replaced > 0
}

// StripPlaceholders removes all well-formed placeholder sequences, leaving
// the literal remainder. Used by the creation-time empty-body check.
func StripPlaceholders(template string) string {
	return placeholderRegex.ReplaceAllString(template, "")
}

func (c RenderContext) value(name string) (string, bool) {
	first := html.EscapeString(c.FirstName)

	switch name {
	case "first":
		return first, true
	case "last":
		// No last name stored falls back to the first name
		if c.LastName == "" {
			return first, true
		}
		return html.EscapeString(c.LastName), true
	case "fullname":
		if c.LastName == "" {
			return first, true
		}
		return first + " " + html.EscapeString(c.LastName), true
	case "username":
		if c.Username != "" {
			return "@" + html.EscapeString(c.Username), true
		}
		// A public handle may not exist; fall back to a clickable mention
		return c.mention(), true
	case "mention":
		return c.mention(), true
	case "chatname":
		if c.ChatIsPrivate || c.ChatTitle == "" {
			return first, true
		}
		return html.EscapeString(c.ChatTitle), true
	case "id":
		return strconv.FormatInt(c.UserID, 10), true
	}

	return "", false
}

func (c RenderContext) mention() string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, c.UserID, html.EscapeString(c.FirstName))
}
