package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	data := NewData(Branding{AppName: "Burger Hub"}, "Ada", "ada@example.com", WithAvatar("https://a/ada.png"))

	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)

	assert.Equal(t, "Welcome to Burger Hub, Ada!", subject)
	assert.Contains(t, text, "ada@example.com")
	assert.Contains(t, html, "https://a/ada.png")
}

func TestRenderSignInNotification_Defaults(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	data := NewData(Branding{}, "", "bob@example.com", WithTime(at), WithIP("10.0.0.1"))

	subject, text, _, err := Render(SignInNotification, data)
	require.NoError(t, err)

	assert.Equal(t, "New sign-in to your Fast Food account", subject)
	assert.Contains(t, text, "Hi there")
	assert.Contains(t, text, "01 March 2025, 12:30 UTC")
	assert.Contains(t, text, "Location: unknown")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", map[string]any{})
	assert.Error(t, err)
}
