package web

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSPAHandler(t *testing.T) {
	h := spaHandler(fstest.MapFS{
		"index.html": {Data: []byte("<html>demos</html>")},
		"app.js":     {Data: []byte("console.log(1)")},
	})

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/", http.StatusOK, "<html>demos</html>"},
		{"/app.js", http.StatusOK, "console.log(1)"},
		{"/quiz", http.StatusOK, "<html>demos</html>"},
		{"/api/unknown", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestSPAHandler_Embedded(t *testing.T) {
	w := httptest.NewRecorder()
	SPAHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app.js")
}

func TestAppScript_Controls(t *testing.T) {
	sub, err := fs.Sub(distFS, "dist")
	require.NoError(t, err)
	js, err := fs.ReadFile(sub, "app.js")
	require.NoError(t, err)

	for _, want := range []string{
		`name: "system_prompt"`,
		`body.system_prompt = form.system_prompt.value`,
		`if (raw === "") return;`,
		`"/api/quiz/next"`,
	} {
		assert.Contains(t, string(js), want)
	}
	assert.NotContains(t, string(js), `v.question.text + " = "`)
}
