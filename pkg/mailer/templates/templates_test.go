package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_VerifyEmail(t *testing.T) {
	data := VerifyEmailData{
		Name:      "A <admin>",
		Email:     "a@x.com",
		VerifyURL: "http://localhost:3000/api/users/1/tok",
		AppName:   "accounts",
	}.ToMap()

	subject, text, html, err := Render(VerifyEmail, data)
	require.NoError(t, err)

	assert.Equal(t, "Verify your email address", subject)
	assert.Contains(t, text, "http://localhost:3000/api/users/1/tok")
	assert.Contains(t, text, "Hi A <admin>,")
	assert.Contains(t, html, `href="http://localhost:3000/api/users/1/tok"`)
	assert.Contains(t, html, "A &lt;admin&gt;", "html body escapes user input")
}

func TestRender_Unknown(t *testing.T) {
	_, _, _, err := Render("login_otp", nil)
	assert.Error(t, err)
}
