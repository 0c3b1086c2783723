package sessioncookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobooks/dashboard-bfa-go/internal/infra/sessioncookie"
)

func TestSealOpen(t *testing.T) {
	s, err := sessioncookie.New("a-long-enough-cookie-secret", false)
	require.NoError(t, err)

	sealed, err := s.Seal("eyJhbGciOi.token")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "eyJhbGciOi")

	got, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOi.token", got)
}

func TestOpen_RejectsOtherKeyAndGarbage(t *testing.T) {
	a, _ := sessioncookie.New("first-cookie-secret-value", false)
	b, _ := sessioncookie.New("second-cookie-secret-value", false)

	sealed, err := a.Seal("tok")
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.Error(t, err)
	_, err = a.Open("not-base64-!!")
	assert.Error(t, err)
	_, err = a.Open("")
	assert.Error(t, err)
}

func TestNew_ShortSecret(t *testing.T) {
	_, err := sessioncookie.New("short", false)
	assert.Error(t, err)
}

func TestWriteRead(t *testing.T) {
	s, _ := sessioncookie.New("a-long-enough-cookie-secret", true)

	rec := httptest.NewRecorder()
	require.NoError(t, s.Write(rec, "tok-1", time.Now().Add(time.Hour)))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	assert.Equal(t, "tok-1", s.Read(req))

	assert.Equal(t, "", s.Read(httptest.NewRequest(http.MethodGet, "/", nil)))
}
