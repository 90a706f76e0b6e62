package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podium/internal/auth"
)

func TestOptional(t *testing.T) {
	type patch struct {
		Name Optional[string] `json:"name"`
		Rank Optional[int]    `json:"rank"`
	}

	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantNull    bool
		wantValue   string
	}{
		{name: "absent", body: `{}`},
		{name: "null", body: `{"name": null}`, wantPresent: true, wantNull: true},
		{name: "empty", body: `{"name": ""}`, wantPresent: true, wantValue: ""},
		{name: "value", body: `{"name": "Family"}`, wantPresent: true, wantValue: "Family"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p patch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))

			assert.Equal(t, tt.wantPresent, p.Name.Present)
			assert.Equal(t, tt.wantNull, p.Name.IsNull())
			if tt.wantPresent && !tt.wantNull {
				require.NotNil(t, p.Name.Value)
				assert.Equal(t, tt.wantValue, *p.Name.Value)
			}
			assert.False(t, p.Rank.Present)
		})
	}
}

func TestOptional_WrongType(t *testing.T) {
	var p struct {
		Rank Optional[int] `json:"rank"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"rank": "first"}`), &p))
}

func TestParseJSON(t *testing.T) {
	type body struct {
		Text string `json:"text"`
	}

	t.Run("decodes", func(t *testing.T) {
		var b body
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"hi"}`))
		require.NoError(t, ParseJSON(httptest.NewRecorder(), r, &b))
		assert.Equal(t, "hi", b.Text)
	})

	t.Run("empty body is not an error", func(t *testing.T) {
		var b body
		r := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		require.NoError(t, ParseJSON(httptest.NewRecorder(), r, &b))
		assert.Empty(t, b.Text)
	})

	t.Run("malformed", func(t *testing.T) {
		var b body
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":`))
		assert.Error(t, ParseJSON(httptest.NewRecorder(), r, &b))
	})
}

func TestRespondMessage(t *testing.T) {
	w := httptest.NewRecorder()
	RespondMessage(w, http.StatusNotFound, "Post with provided guid could not be found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "Post with provided guid could not be found", w.Body.String())
}

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusCreated, map[string]string{"guid": "abc"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"guid":"abc"}`, w.Body.String())
}

func TestCallerContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetCaller(r))

	caller := &auth.Caller{GUID: "g"}
	assert.Same(t, caller, GetCaller(WithCaller(r, caller)))
}
