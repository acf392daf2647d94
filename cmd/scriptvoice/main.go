package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"scriptvoice/internal/config"
	"scriptvoice/internal/gemini"
	"scriptvoice/internal/llm"
	"scriptvoice/internal/playback"
	"scriptvoice/internal/playback/device"
	"scriptvoice/internal/player"
	"scriptvoice/internal/scripts"
	"scriptvoice/internal/storage"
	"scriptvoice/internal/tts"
)

type options struct {
	in      string
	enhance bool
	voice   string
	voice2  string
	out     string
	noPlay  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.in, "in", "", "script file (default: stdin)")
	flag.BoolVar(&opts.enhance, "enhance", false, "rewrite the script with the language model first")
	flag.StringVar(&opts.voice, "voice", string(scripts.DefaultSpeaker1), "voice for speaker 1")
	flag.StringVar(&opts.voice2, "voice2", "", "voice for speaker 2 (enables two-speaker mode)")
	flag.StringVar(&opts.out, "out", "", "write the WAV file here")
	flag.BoolVar(&opts.noPlay, "no-play", false, "skip the terminal player")
	flag.Parse()

	// The player owns the terminal, so logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(logger, opts); err != nil {
		logger.Error("scriptvoice failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	script, err := readScript(opts.in)
	if err != nil {
		return err
	}

	enhancer, synth := newCollaborators(logger, cfg)
	service := scripts.NewService(logger, storage.NewMemoryRepository(), enhancer, synth)

	if opts.enhance {
		enh, err := service.EnhanceScript(ctx, script)
		if err != nil {
			return err
		}
		script = enh.Output
		fmt.Fprintf(os.Stderr, "%s\n\n", script)
	}

	gen, err := service.GenerateVoice(ctx, scripts.GenerateVoiceInput{
		Script:      script,
		Voice1:      scripts.Voice(opts.voice),
		Voice2:      scripts.Voice(opts.voice2),
		TwoSpeakers: opts.voice2 != "",
	})
	if err != nil {
		return err
	}

	if opts.out != "" {
		if err := os.WriteFile(opts.out, gen.Audio, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		logger.Info("wav written", slog.String("path", opts.out), slog.Duration("duration", gen.Duration))
	}
	if opts.noPlay {
		return nil
	}

	engine := playback.NewEngine(logger, func() (playback.AudioContext, error) {
		out, err := device.NewOtoContext(logger, cfg.OutputSampleRate, 2)
		if err != nil {
			return nil, err
		}
		return out, nil
	})
	defer closeLogged(logger, "playback engine", engine)

	if err := engine.Load(ctx, gen.Audio); err != nil {
		return fmt.Errorf("load audio: %w", err)
	}

	title := fmt.Sprintf("ScriptVoice · %s", voiceTitle(gen))
	return player.Run(engine, title, ".")
}

func closeLogged(logger *slog.Logger, name string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn("close failed", slog.String("component", name), slog.String("error", err.Error()))
	}
}

func readScript(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func voiceTitle(gen scripts.Generation) string {
	title := string(gen.Speaker1)
	if gen.TwoSpeakers() {
		title += " & " + string(gen.Speaker2)
	}
	return title
}

func newCollaborators(logger *slog.Logger, cfg config.Config) (scripts.Enhancer, scripts.Synthesizer) {
	if cfg.UseStubs {
		return llm.NewStubClient(logger), tts.NewStubSynthesizer()
	}

	api := gemini.NewClient(logger, cfg.APIKey, &gemini.Options{
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
	})
	return llm.NewGeminiClient(logger, api, &llm.GeminiOptions{Model: cfg.ScriptModel}),
		tts.NewGeminiSynthesizer(logger, api, &tts.GeminiOptions{Model: cfg.SpeechModel})
}
