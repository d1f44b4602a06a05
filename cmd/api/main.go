package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"google.golang.org/genai"

	"rivalradar/internal/config"
	"rivalradar/internal/fetch"
	"rivalradar/internal/intel"
	"rivalradar/internal/llm"
	"rivalradar/internal/profile"
	"rivalradar/internal/store"
	transporthttp "rivalradar/internal/transport/http"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer db.Close()

	seedCompetitors(db, cfg.Competitors)

	ingest := intel.NewIngestSource("ingest")
	registry, err := intel.NewSourceRegistry(ingest)
	if err != nil {
		log.Fatalf("init source registry: %v", err)
	}

	if cfg.PerplexityAPIKey != "" {
		source := fetch.NewPerplexitySource(llm.NewClient(cfg.PerplexityAPIKey), cfg.PerplexityModel)
		source.Keywords = func(competitor string) []string {
			c, err := db.CompetitorByName(competitor)
			if err != nil {
				return nil
			}
			return c.Keywords
		}
		source.Context = func(competitor string) string {
			c, err := db.CompetitorByName(competitor)
			if err != nil {
				return ""
			}
			return profile.SearchContext(c.Name, profile.CompanyInfo{
				Description: c.Description,
				Industry:    c.Industry,
			})
		}
		registry.Add(source)
		log.Printf("perplexity source enabled with model %s", cfg.PerplexityModel)
	}

	analyzer := buildAnalyzer(cfg)

	pipeline, err := intel.NewPipeline(registry, intel.NewResponseParser(), analyzer)
	if err != nil {
		log.Fatalf("init pipeline: %v", err)
	}

	server := transporthttp.NewServer(pipeline, db, ingest, cfg)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      withLogging(withCORS(server.Routes())),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("rivalradar API listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("signal received: %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// buildAnalyzer picks the richest available analysis strategy: Gemini when
// a key is configured, then the OpenAI-compatible chat path, otherwise the
// deterministic rule engine. Every generative path carries the rule engine
// as its fallback.
func buildAnalyzer(cfg config.Config) intel.ImpactAnalysisStrategy {
	rules := intel.NewRuleEngine()

	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			log.Printf("gemini client unavailable, using rule engine: %v", err)
			return rules
		}
		log.Printf("gemini analysis enabled with model %s", cfg.GeminiModel)
		return intel.NewGeminiAnalyzer(client, cfg.GeminiModel, rules)
	}

	if cfg.PerplexityAPIKey != "" {
		analyzer := intel.NewLLMAnalyzer(llm.NewClient(cfg.PerplexityAPIKey), cfg.PerplexityModel, rules)
		analyzer.Temperature = cfg.LLMTemperature
		analyzer.MaxTokens = cfg.LLMMaxTokens
		log.Printf("chat analysis enabled with model %s", cfg.PerplexityModel)
		return analyzer
	}

	return rules
}

func seedCompetitors(db *store.Store, competitors []config.CompetitorConfig) {
	for _, c := range competitors {
		if _, err := db.AddCompetitor(store.Competitor{
			Name:            c.Name,
			Website:         c.Website,
			Keywords:        c.Keywords,
			BusinessContext: c.BusinessContext,
		}); err != nil {
			// Already-tracked competitors hit the UNIQUE constraint.
			if !strings.Contains(err.Error(), "UNIQUE") {
				log.Printf("seed competitor %s: %v", c.Name, err)
			}
		}
	}
}

// withLogging logs each request with its duration.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// withCORS allows browser front ends to consume the API.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
