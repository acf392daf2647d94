package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"scriptvoice/internal/llm"
	"scriptvoice/internal/scripts"
	"scriptvoice/internal/storage"
	"scriptvoice/internal/tts"
	"scriptvoice/internal/ui"
)

type failingSynth struct{}

func (failingSynth) Synthesize(context.Context, scripts.SynthesisRequest) (string, error) {
	return "", errors.New("quota exceeded")
}

func newTestServer(t *testing.T, synth scripts.Synthesizer) (http.Handler, *storage.MemoryRepository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := storage.NewMemoryRepository()
	service := scripts.NewService(logger, repo, llm.NewStubClient(logger), synth)

	tmpl, err := ui.ParseTemplates()
	require.NoError(t, err)
	return NewServer(logger, service, tmpl, ui.StaticFiles()), repo
}

func postForm(h http.Handler, path string, form url.Values, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestIndexAndHealth(t *testing.T) {
	h, _ := newTestServer(t, tts.NewStubSynthesizer())

	rec := get(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ScriptVoice")
	require.Contains(t, rec.Body.String(), "Jaxx")

	rec = get(h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())

	rec = get(h, "/static/player.js")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestVoiceOptionsJSON(t *testing.T) {
	h, _ := newTestServer(t, tts.NewStubSynthesizer())

	rec := get(h, "/voice-options")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var opts []scripts.VoiceOption
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	require.Len(t, opts, 5)
	require.Equal(t, "Aura", opts[0].Name)
	require.Equal(t, scripts.VoiceKore, opts[0].Voice)
}

func TestEnhanceScript(t *testing.T) {
	h, repo := newTestServer(t, tts.NewStubSynthesizer())

	rec := postForm(h, "/scripts/enhance", url.Values{"input_script": {"work hard"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "work hard")

	recent, err := repo.RecentEnhancements(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}

func TestEnhanceScriptEmptyLocalised(t *testing.T) {
	h, _ := newTestServer(t, tts.NewStubSynthesizer())

	rec := postForm(h, "/scripts/enhance", url.Values{"input_script": {"  "}}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Input script cannot be empty.")

	rec = postForm(h, "/scripts/enhance", url.Values{"input_script": {""}}, map[string]string{"Accept-Language": "de-DE,de;q=0.9"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Das Eingabeskript darf nicht leer sein.")
}

func TestGenerateVoiceAndServeAudio(t *testing.T) {
	h, repo := newTestServer(t, tts.NewStubSynthesizer())

	rec := postForm(h, "/voices", url.Values{
		"script": {"one two three four"},
		"mode":   {"two"},
		"voice1": {"Puck"},
		"voice2": {"Zephyr"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "data-player")

	gens, err := repo.ListGenerations(context.Background(), scripts.GenerationFilter{})
	require.NoError(t, err)
	require.Len(t, gens, 1)
	id := gens[0].ID.String()
	require.Contains(t, rec.Body.String(), "/voices/"+id+"/audio")

	rec = get(h, "/voices/"+id+"/audio")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "inline"))
	require.Equal(t, "RIFF", rec.Body.String()[:4])
	require.Equal(t, 44+24000*2, rec.Body.Len())

	rec = get(h, "/voices/"+id+"/download")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "attachment; filename=generated_voice.wav", rec.Header().Get("Content-Disposition"))

	rec = get(h, "/voices/"+id)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "one two three four")

	rec = get(h, "/voices?voice=Zephyr")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/voices/"+id)

	rec = get(h, "/voices?voice=Kore")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "/voices/"+id)
}

func TestGenerateVoiceErrors(t *testing.T) {
	h, _ := newTestServer(t, tts.NewStubSynthesizer())

	cases := []struct {
		name   string
		form   url.Values
		status int
		msg    string
	}{
		{
			name:   "empty",
			form:   url.Values{"script": {""}, "voice1": {"Puck"}},
			status: http.StatusBadRequest,
			msg:    "Input script cannot be empty.",
		},
		{
			name:   "duplicate",
			form:   url.Values{"script": {"hi"}, "mode": {"two"}, "voice1": {"Kore"}, "voice2": {"Kore"}},
			status: http.StatusBadRequest,
			msg:    "Please select two different voices for Speaker 1 and Speaker 2.",
		},
		{
			name:   "unknown",
			form:   url.Values{"script": {"hi"}, "voice1": {"Nobody"}},
			status: http.StatusBadRequest,
			msg:    "Please choose one of the available voices.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postForm(h, "/voices", tc.form, nil)
			require.Equal(t, tc.status, rec.Code)
			require.Contains(t, rec.Body.String(), tc.msg)
		})
	}
}

func TestGenerateVoiceUpstreamFailure(t *testing.T) {
	h, _ := newTestServer(t, failingSynth{})

	rec := postForm(h, "/voices", url.Values{"script": {"hi"}, "voice1": {"Puck"}}, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "Failed to generate voice. Please try again.")
}

func TestGenerationNotFound(t *testing.T) {
	h, _ := newTestServer(t, tts.NewStubSynthesizer())

	rec := get(h, "/voices/00000000-0000-0000-0000-000000000000")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Voice generation not found.")

	rec = get(h, "/voices/not-a-uuid/audio")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetLanguage(t *testing.T) {
	h, _ := newTestServer(t, tts.NewStubSynthesizer())

	rec := get(h, "/lang/fi")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "fi", cookies[0].Value)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	page := httptest.NewRecorder()
	h.ServeHTTP(page, req)
	require.Contains(t, page.Body.String(), "Luo ääni")

	rec = get(h, "/lang/xx")
	require.Equal(t, "en", rec.Result().Cookies()[0].Value)
}
