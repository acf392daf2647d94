package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"scriptvoice/internal/i18n"
	"scriptvoice/internal/playback"
	"scriptvoice/internal/scripts"
	"scriptvoice/internal/wav"
)

const recentLimit = 10

// Server wires HTTP routing for ScriptVoice.
type Server struct {
	logger    *slog.Logger
	scripts   *scripts.Service
	templates *template.Template
	staticFS  http.FileSystem
}

// NewServer constructs a chi router implementing http.Handler.
func NewServer(logger *slog.Logger, service *scripts.Service, templates *template.Template, staticFS http.FileSystem) http.Handler {
	srv := &Server{
		logger:    logger,
		scripts:   service,
		templates: templates,
		staticFS:  staticFS,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(srv.staticFS)))

	r.Get("/", srv.handleIndex)
	r.Get("/healthz", srv.handleHealth)
	r.Get("/voice-options", srv.handleVoiceOptions)
	r.Post("/scripts/enhance", srv.handleEnhance)
	r.Post("/voices", srv.handleGenerateVoice)
	r.Get("/voices", srv.handleListVoices)
	r.Get("/voices/{id}", srv.handleDetail)
	r.Get("/voices/{id}/audio", srv.handleAudio)
	r.Get("/voices/{id}/download", srv.handleDownload)
	r.Get("/lang/{lang}", srv.handleSetLanguage)

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	lang := s.getLanguage(r)
	generations, err := s.scripts.ListGenerations(r.Context(), scripts.GenerationFilter{Limit: recentLimit})
	if err != nil {
		s.serverError(w, lang, err)
		return
	}

	payload := map[string]any{
		"Lang":            lang,
		"VoiceOptions":    scripts.VoiceOptions,
		"DefaultSpeaker1": scripts.DefaultSpeaker1,
		"DefaultSpeaker2": scripts.DefaultSpeaker2,
		"Generations":     generations,
	}
	s.renderPage(w, lang, i18n.Get(lang, "app_name"), "index.html", payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVoiceOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(scripts.VoiceOptions); err != nil {
		s.logger.Error("encode voice options failed", slog.String("error", err.Error()))
	}
}

func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	lang := s.getLanguage(r)
	if err := r.ParseForm(); err != nil {
		s.clientError(w, lang, http.StatusBadRequest, "err_generic")
		return
	}

	enh, err := s.scripts.EnhanceScript(r.Context(), r.FormValue("input_script"))
	if err != nil {
		s.domainError(w, lang, err, "err_enhance_failed")
		return
	}

	s.renderPartial(w, "script_output.html", map[string]any{
		"Lang":        lang,
		"Enhancement": enh,
	})
}

func (s *Server) handleGenerateVoice(w http.ResponseWriter, r *http.Request) {
	lang := s.getLanguage(r)
	if err := r.ParseForm(); err != nil {
		s.clientError(w, lang, http.StatusBadRequest, "err_generic")
		return
	}

	input := scripts.GenerateVoiceInput{
		Script:      r.FormValue("script"),
		Voice1:      scripts.Voice(strings.TrimSpace(r.FormValue("voice1"))),
		Voice2:      scripts.Voice(strings.TrimSpace(r.FormValue("voice2"))),
		TwoSpeakers: r.FormValue("mode") == "two",
	}
	if input.Voice1 == "" {
		input.Voice1 = scripts.DefaultSpeaker1
	}
	if input.TwoSpeakers && input.Voice2 == "" {
		input.Voice2 = scripts.DefaultSpeaker2
	}

	gen, err := s.scripts.GenerateVoice(r.Context(), input)
	if err != nil {
		s.domainError(w, lang, err, "err_generate_failed")
		return
	}

	w.Header().Set("HX-Trigger", "voice-generated")
	s.renderPartial(w, "voice_player.html", map[string]any{
		"Lang":       lang,
		"Generation": gen,
	})
}

func (s *Server) handleListVoices(w http.ResponseWriter, r *http.Request) {
	lang := s.getLanguage(r)
	filter := scripts.GenerationFilter{Limit: 20}

	if v := strings.TrimSpace(r.FormValue("voice")); v != "" {
		voice, err := scripts.ParseVoice(v)
		if err != nil {
			s.domainError(w, lang, err, "err_generic")
			return
		}
		filter.Voice = &voice
	}
	if v, err := strconv.Atoi(r.FormValue("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(r.FormValue("offset")); err == nil && v > 0 {
		filter.Offset = v
	}

	results, err := s.scripts.ListGenerations(r.Context(), filter)
	if err != nil {
		s.serverError(w, lang, err)
		return
	}

	s.renderPartial(w, "voices_list.html", map[string]any{
		"Lang":        lang,
		"Generations": results,
	})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	lang := s.getLanguage(r)
	gen, ok := s.loadGeneration(w, r, lang)
	if !ok {
		return
	}

	s.renderPage(w, lang, i18n.Get(lang, "app_name")+" · "+gen.ID.String()[:8], "voice_detail.html", map[string]any{
		"Lang":       lang,
		"Generation": gen,
	})
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	s.serveAudio(w, r, "inline")
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.serveAudio(w, r, "attachment")
}

func (s *Server) serveAudio(w http.ResponseWriter, r *http.Request, disposition string) {
	lang := s.getLanguage(r)
	gen, ok := s.loadGeneration(w, r, lang)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", wav.MIMEType)
	w.Header().Set("Content-Disposition", disposition+"; filename="+playback.DownloadFilename)
	http.ServeContent(w, r, playback.DownloadFilename, gen.CreatedAt, bytes.NewReader(gen.Audio))
}

func (s *Server) loadGeneration(w http.ResponseWriter, r *http.Request, lang string) (scripts.Generation, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.clientError(w, lang, http.StatusNotFound, "err_not_found")
		return scripts.Generation{}, false
	}

	gen, err := s.scripts.GetGeneration(r.Context(), id)
	if err != nil {
		s.domainError(w, lang, err, "err_generic")
		return scripts.Generation{}, false
	}
	return gen, true
}

type pageView struct {
	Title       string
	Body        template.HTML
	Lang        string
	UILanguages []UILanguage
}

type UILanguage struct {
	Code string
	Name string
}

func (s *Server) renderPage(w http.ResponseWriter, lang, title, contentTemplate string, payload any) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, contentTemplate, payload); err != nil {
		s.logger.Error("render template failed", slog.String("template", contentTemplate), slog.String("error", err.Error()))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	data := pageView{
		Title:       title,
		Body:        template.HTML(body.String()),
		Lang:        lang,
		UILanguages: s.getUILanguages(),
	}
	s.executeTemplate(w, http.StatusOK, "base.html", data)
}

func (s *Server) renderPartial(w http.ResponseWriter, templateName string, data any) {
	s.executeTemplate(w, http.StatusOK, templateName, data)
}

func (s *Server) executeTemplate(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("render template failed", slog.String("template", name), slog.String("error", err.Error()))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// domainError maps service errors to a status and a localised message.
// fallbackKey names the message shown for upstream failures.
func (s *Server) domainError(w http.ResponseWriter, lang string, err error, fallbackKey string) {
	switch {
	case errors.Is(err, scripts.ErrEmptyInput):
		s.clientError(w, lang, http.StatusBadRequest, "err_empty_input")
	case errors.Is(err, scripts.ErrDuplicateVoice):
		s.clientError(w, lang, http.StatusBadRequest, "err_duplicate_voice")
	case errors.Is(err, scripts.ErrUnknownVoice):
		s.clientError(w, lang, http.StatusBadRequest, "err_unknown_voice")
	case errors.Is(err, scripts.ErrNotFound):
		s.clientError(w, lang, http.StatusNotFound, "err_not_found")
	case errors.Is(err, scripts.ErrService):
		s.logger.Error("upstream service failed", slog.String("error", err.Error()))
		s.clientError(w, lang, http.StatusBadGateway, fallbackKey)
	default:
		s.serverError(w, lang, err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, lang string, err error) {
	s.logger.Error("request failed", slog.String("error", err.Error()))
	s.clientError(w, lang, http.StatusInternalServerError, "err_generic")
}

func (s *Server) clientError(w http.ResponseWriter, lang string, status int, key string) {
	s.executeTemplate(w, status, "error.html", map[string]any{
		"Lang":    lang,
		"Message": i18n.Get(lang, key),
	})
}

func (s *Server) getLanguage(r *http.Request) string {
	if cookie, err := r.Cookie(i18n.CookieName); err == nil && i18n.Supported(cookie.Value) {
		return cookie.Value
	}
	if lang := r.URL.Query().Get("lang"); i18n.Supported(lang) {
		return lang
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		return i18n.Normalize(accept)
	}
	return i18n.DefaultLanguage
}

func (s *Server) getUILanguages() []UILanguage {
	result := make([]UILanguage, 0, len(i18n.Languages))
	for _, code := range i18n.Languages {
		result = append(result, UILanguage{
			Code: code,
			Name: i18n.LanguageNames[code],
		})
	}
	return result
}

func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	if !i18n.Supported(lang) {
		lang = i18n.DefaultLanguage
	}

	http.SetCookie(w, &http.Cookie{
		Name:     i18n.CookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})

	redirect := r.Header.Get("Referer")
	if redirect == "" {
		redirect = "/"
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}
