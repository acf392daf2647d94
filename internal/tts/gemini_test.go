package tts

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"scriptvoice/internal/gemini"
	"scriptvoice/internal/scripts"
)

func newTestSynth(t *testing.T, handler http.HandlerFunc) *GeminiSynthesizer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := gemini.NewClient(logger, "key", &gemini.Options{BaseURL: srv.URL})
	return NewGeminiSynthesizer(logger, api, nil)
}

func TestSynthesizeSingleVoice(t *testing.T) {
	var got gemini.Request
	var path string
	synth := newTestSynth(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"audio/L16;rate=24000","data":"AAEC"}}]}}]}`))
	})

	data, err := synth.Synthesize(context.Background(), scripts.SynthesisRequest{Text: "hello there", Voice1: scripts.VoiceKore})
	require.NoError(t, err)
	require.Equal(t, "AAEC", data)

	require.Equal(t, "/models/"+DefaultModel+":generateContent", path)
	require.Equal(t, "hello there", got.Contents[0].Parts[0].Text)
	require.Equal(t, []string{"AUDIO"}, got.GenerationConfig.ResponseModalities)
	require.NotNil(t, got.GenerationConfig.SpeechConfig.VoiceConfig)
	require.Equal(t, "Kore", got.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
	require.Nil(t, got.GenerationConfig.SpeechConfig.MultiSpeakerVoiceConfig)
}

func TestSynthesizeMissingAudio(t *testing.T) {
	synth := newTestSynth(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`))
	})

	_, err := synth.Synthesize(context.Background(), scripts.SynthesisRequest{Text: "x", Voice1: scripts.VoicePuck})
	require.ErrorIs(t, err, ErrNoAudio)
}

func TestSynthesizeUpstreamError(t *testing.T) {
	synth := newTestSynth(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	})

	_, err := synth.Synthesize(context.Background(), scripts.SynthesisRequest{Text: "x", Voice1: scripts.VoicePuck})
	require.ErrorContains(t, err, "status=429")
}

func TestBuildRequestTwoSpeakers(t *testing.T) {
	req := BuildRequest(scripts.SynthesisRequest{
		Text:   "one two three",
		Voice1: scripts.VoicePuck,
		Voice2: scripts.VoiceZephyr,
	})

	require.Equal(t, scripts.FormatConversation("one two three"), req.Contents[0].Parts[0].Text)

	speech := req.GenerationConfig.SpeechConfig
	require.Nil(t, speech.VoiceConfig)
	require.NotNil(t, speech.MultiSpeakerVoiceConfig)

	cfgs := speech.MultiSpeakerVoiceConfig.SpeakerVoiceConfigs
	require.Len(t, cfgs, 2)
	require.Equal(t, "SPEAKER1", cfgs[0].Speaker)
	require.Equal(t, "Puck", cfgs[0].VoiceConfig.PrebuiltVoiceConfig.VoiceName)
	require.Equal(t, "SPEAKER2", cfgs[1].Speaker)
	require.Equal(t, "Zephyr", cfgs[1].VoiceConfig.PrebuiltVoiceConfig.VoiceName)
}
