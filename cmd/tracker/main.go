package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"rivalradar/internal/config"
	"rivalradar/internal/fetch"
	"rivalradar/internal/intel"
	"rivalradar/internal/llm"
	"rivalradar/internal/profile"
	"rivalradar/internal/store"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: tracker <command> [options]

Commands:
  add     -name NAME [-website URL] [-keywords a,b] [-context TEXT]
  list
  remove  -name NAME
  fetch   [-name NAME]          fetch updates (all competitors by default)
  brief   [-days N]             print the executive briefing as JSON
  export  -format csv|json [-days N] [-out FILE]
  stats
`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	switch os.Args[1] {
	case "add":
		cmdAdd(ctx, db, os.Args[2:])
	case "list":
		cmdList(db)
	case "remove":
		cmdRemove(db, os.Args[2:])
	case "fetch":
		cmdFetch(ctx, cfg, db, os.Args[2:])
	case "brief":
		cmdBrief(ctx, cfg, db, os.Args[2:])
	case "export":
		cmdExport(db, os.Args[2:])
	case "stats":
		cmdStats(db)
	default:
		usage()
	}
}

func cmdAdd(ctx context.Context, db *store.Store, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "competitor name")
	website := fs.String("website", "", "competitor website")
	keywords := fs.String("keywords", "", "comma-separated tracking keywords")
	businessContext := fs.String("context", "", "your business context for analysis")
	fs.Parse(args)

	if *name == "" {
		log.Fatal("add: -name is required")
	}

	competitor := store.Competitor{
		Name:            *name,
		Website:         *website,
		BusinessContext: *businessContext,
		Keywords:        splitKeywords(*keywords),
	}

	if *website != "" {
		info := profile.NewExtractor().Extract(ctx, *website)
		competitor.Description = info.Description
		competitor.Industry = info.Industry
		if info.Products != "" && len(competitor.Keywords) == 0 {
			competitor.Keywords = splitKeywords(info.Products)
		}
	}

	id, err := db.AddCompetitor(competitor)
	if err != nil {
		log.Fatalf("add competitor: %v", err)
	}
	fmt.Printf("Added %s (id %d)\n", *name, id)
	if competitor.Industry != "" {
		fmt.Printf("  industry: %s\n", competitor.Industry)
	}
}

func cmdList(db *store.Store) {
	competitors, err := db.Competitors()
	if err != nil {
		log.Fatalf("list competitors: %v", err)
	}
	if len(competitors) == 0 {
		fmt.Println("No competitors tracked yet.")
		return
	}
	for _, c := range competitors {
		fmt.Printf("%-4d %-30s %s\n", c.ID, c.Name, c.Website)
	}
}

func cmdRemove(db *store.Store, args []string) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	name := fs.String("name", "", "competitor name")
	fs.Parse(args)

	if *name == "" {
		log.Fatal("remove: -name is required")
	}
	if err := db.DeleteCompetitor(*name); err != nil {
		log.Fatalf("remove competitor: %v", err)
	}
	fmt.Printf("Removed %s\n", *name)
}

func cmdFetch(ctx context.Context, cfg config.Config, db *store.Store, args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	name := fs.String("name", "", "fetch a single competitor")
	fs.Parse(args)

	if cfg.PerplexityAPIKey == "" {
		log.Fatal("fetch: PERPLEXITY_API_KEY is not configured")
	}

	pipeline := buildPipeline(cfg, db)

	competitors, err := targets(db, *name)
	if err != nil {
		log.Fatalf("fetch: %v", err)
	}

	for _, c := range competitors {
		records, err := pipeline.CollectUpdates(ctx, c.Name)
		if err != nil {
			log.Printf("fetch %s: %v", c.Name, err)
			continue
		}
		saved, err := db.SaveRecords(records)
		if err != nil {
			log.Fatalf("save records for %s: %v", c.Name, err)
		}
		fmt.Printf("%s: %d records fetched, %d new\n", c.Name, len(records), saved)
	}
}

func cmdBrief(ctx context.Context, cfg config.Config, db *store.Store, args []string) {
	fs := flag.NewFlagSet("brief", flag.ExitOnError)
	days := fs.Int("days", 7, "analysis window in days")
	fs.Parse(args)

	pipeline := buildPipeline(cfg, db)

	competitors, err := db.Competitors()
	if err != nil {
		log.Fatalf("brief: %v", err)
	}

	since := time.Now().UTC().Add(-time.Duration(*days) * 24 * time.Hour)
	assessments := make([]intel.ImpactAssessment, 0, len(competitors))
	for _, c := range competitors {
		records, err := db.RecentRecords(c.Name, since)
		if err != nil {
			log.Fatalf("brief %s: %v", c.Name, err)
		}
		assessment, err := pipeline.Assess(ctx, c.Name, records, c.BusinessContext)
		if err != nil {
			log.Fatalf("assess %s: %v", c.Name, err)
		}
		assessments = append(assessments, assessment)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(intel.AggregateBriefing(assessments)); err != nil {
		log.Fatalf("encode briefing: %v", err)
	}
}

func cmdExport(db *store.Store, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "json", "csv or json")
	days := fs.Int("days", 30, "export window in days")
	out := fs.String("out", "", "output file (stdout by default)")
	fs.Parse(args)

	records, err := db.AllRecords(time.Now().UTC().Add(-time.Duration(*days) * 24 * time.Hour))
	if err != nil {
		log.Fatalf("export: %v", err)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("export: %v", err)
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(records); err != nil {
			log.Fatalf("export: %v", err)
		}
	case "csv":
		cw := csv.NewWriter(w)
		cw.Write([]string{"competitor", "title", "source", "category", "sentiment", "url", "published_at", "fetched_at"})
		for _, r := range records {
			cw.Write([]string{
				r.CompetitorName, r.Title, r.Source, string(r.Category), string(r.Sentiment),
				r.URL, r.PublishedAt, r.FetchedAt.Format(time.RFC3339),
			})
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			log.Fatalf("export: %v", err)
		}
	default:
		log.Fatalf("export: unknown format %q", *format)
	}
}

func cmdStats(db *store.Store) {
	stats, err := db.GetStats()
	if err != nil {
		log.Fatalf("stats: %v", err)
	}
	fmt.Printf("Competitors: %s\nRecords:     %s\n",
		strconv.Itoa(stats.Competitors), strconv.Itoa(stats.Records))
}

func buildPipeline(cfg config.Config, db *store.Store) *intel.Pipeline {
	ingest := intel.NewIngestSource("ingest")
	registry, err := intel.NewSourceRegistry(ingest)
	if err != nil {
		log.Fatalf("init sources: %v", err)
	}

	rules := intel.NewRuleEngine()
	analyzer := intel.ImpactAnalysisStrategy(rules)

	if cfg.PerplexityAPIKey != "" {
		client := llm.NewClient(cfg.PerplexityAPIKey)

		source := fetch.NewPerplexitySource(client, cfg.PerplexityModel)
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

		llmAnalyzer := intel.NewLLMAnalyzer(client, cfg.PerplexityModel, rules)
		llmAnalyzer.Temperature = cfg.LLMTemperature
		llmAnalyzer.MaxTokens = cfg.LLMMaxTokens
		analyzer = llmAnalyzer
	}

	pipeline, err := intel.NewPipeline(registry, intel.NewResponseParser(), analyzer)
	if err != nil {
		log.Fatalf("init pipeline: %v", err)
	}
	return pipeline
}

func targets(db *store.Store, name string) ([]store.Competitor, error) {
	if name != "" {
		c, err := db.CompetitorByName(name)
		if err != nil {
			return nil, err
		}
		return []store.Competitor{c}, nil
	}
	return db.Competitors()
}

func splitKeywords(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
