// go_study is a content discovery and study material generation service.
//
// Takes a free-text learning preference, finds captioned tutorial videos,
// fetches their transcripts, and generates summaries, quizzes, flashcards
// and a cross-video learning plan. Exposes a small HTTP API.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/joho/godotenv"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/anatolykoptev/go_study/internal/engine/sources"
	"github.com/anatolykoptev/go_study/internal/engine/study"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	port := env.Str("PORT", "8892")
	pipeline := initPipeline()

	slog.Info("starting go_study", slog.String("port", port), slog.String("version", version))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/process", handleProcess(pipeline))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "version": version})
	})
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(engine.FormatMetrics()))
	})

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
		// A full run can take many minutes: 5 videos, each with a slow
		// transcript fetch plus a generation call.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 20 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initPipeline() *engine.Pipeline {
	c := engine.Config{
		YouTubeAPIKey:        env.Str("YOUTUBE_API_KEY", ""),
		TranscriptServiceURL: env.Str("TRANSCRIPT_SERVICE_URL", "http://127.0.0.1:5000"),
		ModelAPIBase:         env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		ModelAPIKey:          env.Str("LLM_API_KEY", ""),
		ModelName:            env.Str("LLM_MODEL", "gemini-2.5-flash"),
		ModelTemperature:     env.Float("LLM_TEMPERATURE", 0.7),
		ModelMaxTokens:       env.Int("LLM_MAX_TOKENS", 4096),

		TargetVideos:      env.Int("TARGET_VIDEOS", 5),
		MaxAttempts:       env.Int("MAX_ATTEMPTS", 50),
		AttemptDelay:      env.Duration("ATTEMPT_DELAY", 2*time.Second),
		TopicTimeout:      env.Duration("TOPIC_TIMEOUT", 30*time.Second),
		TranscriptTimeout: env.Duration("TRANSCRIPT_TIMEOUT", 4*time.Minute),
		GenerateTimeout:   env.Duration("GENERATE_TIMEOUT", 10*time.Minute),
		PlanTimeout:       env.Duration("PLAN_TIMEOUT", 10*time.Minute),

		TopicCacheEntries:      env.Int("TOPIC_CACHE_ENTRIES", 500),
		TranscriptCacheEntries: env.Int("TRANSCRIPT_CACHE_ENTRIES", 200),
	}
	engine.Init(c)
	engine.InitCache(env.Str("REDIS_URL", ""))

	ctx := context.Background()
	searcher, err := sources.NewYouTube(ctx, c.YouTubeAPIKey)
	if err != nil {
		// Discovery has no degraded mode; without a search client every
		// run would fail.
		slog.Error("youtube client init failed", slog.Any("error", err))
		os.Exit(1)
	}

	scripts := sources.NewTranscriptClient(c.TranscriptServiceURL)
	model := sources.NewModel(c.ModelAPIBase, c.ModelAPIKey, c.ModelName,
		env.List("LLM_API_KEY_FALLBACKS", ""), c.ModelMaxTokens, c.ModelTemperature)

	var store engine.Store
	if dbURL := env.Str("DATABASE_URL", ""); dbURL != "" {
		db, err := study.Connect(ctx, dbURL)
		if err != nil {
			slog.Warn("study DB init failed, persistence disabled", slog.Any("error", err))
		} else {
			store = db
			slog.Info("study DB initialized")
		}
	}

	return engine.NewPipeline(searcher, scripts, model, store)
}

type processRequest struct {
	Preference string `json:"preference"`
	UserID     string `json:"userId,omitempty"`
}

func handleProcess(pipeline *engine.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
			return
		}
		req.Preference = strings.TrimSpace(req.Preference)
		if req.Preference == "" {
			http.Error(w, `{"error":"preference is required"}`, http.StatusBadRequest)
			return
		}

		result := pipeline.Run(r.Context(), req.Preference, req.UserID)

		w.Header().Set("Content-Type", "application/json")
		if result.Status == engine.StatusError {
			w.WriteHeader(http.StatusBadGateway)
		}
		json.NewEncoder(w).Encode(result)
	}
}
