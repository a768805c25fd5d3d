package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderFirst(t *testing.T) {
	got, ok := Render("Hi {first}!", RenderContext{FirstName: "Ann", UserID: 42})

	assert.True(t, ok)
	assert.Equal(t, "Hi Ann!", got)
}

func TestRenderNoBraces(t *testing.T) {
	got, ok := Render("plain reply", RenderContext{FirstName: "Ann"})

	assert.True(t, ok)
	assert.Equal(t, "plain reply", got)
}

func TestRenderUnknownPlaceholderPassesThrough(t *testing.T) {
	got, ok := Render("{bogus}", RenderContext{FirstName: "Ann"})

	assert.False(t, ok)
	assert.Equal(t, "{bogus}", got)
}

func TestRenderMixedKnownAndUnknown(t *testing.T) {
	got, ok := Render("{first} says {bogus}", RenderContext{FirstName: "Ann"})

	assert.True(t, ok)
	assert.Equal(t, "Ann says {bogus}", got)
}

func TestRenderFullname(t *testing.T) {
	got, _ := Render("{fullname}", RenderContext{FirstName: "Ann", LastName: "Lee"})
	assert.Equal(t, "Ann Lee", got)

	// Without a last name, fullname collapses to the first name
	got, _ = Render("{fullname}", RenderContext{FirstName: "Ann"})
	assert.Equal(t, "Ann", got)
}

func TestRenderLastFallsBackToFirst(t *testing.T) {
	got, _ := Render("{last}", RenderContext{FirstName: "Ann"})

	assert.Equal(t, "Ann", got)
}

func TestRenderUsername(t *testing.T) {
	got, _ := Render("{username}", RenderContext{FirstName: "Ann", Username: "annl", UserID: 42})

	assert.Equal(t, "@annl", got)
}

func TestRenderUsernameFallsBackToMention(t *testing.T) {
	got, _ := Render("{username}", RenderContext{FirstName: "Ann", UserID: 42})

	assert.Equal(t, `<a href="tg://user?id=42">Ann</a>`, got)
}

func TestRenderMention(t *testing.T) {
	got, _ := Render("{mention}", RenderContext{FirstName: "Ann", UserID: 42})

	assert.Equal(t, `<a href="tg://user?id=42">Ann</a>`, got)
}

func TestRenderChatname(t *testing.T) {
	got, _ := Render("{chatname}", RenderContext{FirstName: "Ann", ChatTitle: "Go Devs"})
	assert.Equal(t, "Go Devs", got)

	// Private chats have no title; the sender's name stands in
	got, _ = Render("{chatname}", RenderContext{FirstName: "Ann", ChatIsPrivate: true, ChatTitle: "Go Devs"})
	assert.Equal(t, "Ann", got)
}

func TestRenderID(t *testing.T) {
	got, _ := Render("{id}", RenderContext{FirstName: "Ann", UserID: 12345})

	assert.Equal(t, "12345", got)
}

func TestRenderEscapesHTMLInNames(t *testing.T) {
	got, _ := Render("{first}", RenderContext{FirstName: "<Ann>"})

	assert.Equal(t, "&lt;Ann&gt;", got)
}

func TestStripPlaceholders(t *testing.T) {
	assert.Equal(t, "Hi !", StripPlaceholders("Hi {first}!"))
	assert.Equal(t, "", StripPlaceholders("{first}{mention}"))
	assert.Equal(t, "keep", StripPlaceholders("keep"))
}
