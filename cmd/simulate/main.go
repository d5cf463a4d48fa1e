package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/QuotaPit_Go/internal/config"
	"github.com/osse101/QuotaPit_Go/internal/domain"
	"github.com/osse101/QuotaPit_Go/internal/logger"
	"github.com/osse101/QuotaPit_Go/internal/simulation"
	"github.com/osse101/QuotaPit_Go/internal/utils"
)

func main() {
	games := flag.Int("games", simulation.DefaultGames, "Number of games to play")
	seed := flag.Uint64("seed", 1, "Seed of the first game; game i uses seed+i")
	concurrency := flag.Int("concurrency", simulation.DefaultConcurrency, "Games played in parallel")
	strategy := flag.String("strategy", simulation.StrategyCheapest, "Purchase strategy: cheapest or richest")
	maxRounds := flag.Int("max-rounds", simulation.DefaultMaxRounds, "Stop a game after this many rounds")
	rulesPath := flag.String("rules", config.ConfigPathRules, "Path to the rules file")
	asJSON := flag.Bool("json", false, "Print the report as JSON")
	outPath := flag.String("out", "", "Also write the report and per-game results to this JSON file")
	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()

	logger.InitLoggerWithWriter(
		logger.NewConfig(*logLevel, "text", "quota-pit-simulate", "dev", "development", false),
		os.Stderr,
	)

	rules, err := config.LoadRules(*rulesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load rules: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := simulation.Run(ctx, simulation.Params{
		Games:       *games,
		Seed:        *seed,
		Concurrency: *concurrency,
		Strategy:    *strategy,
		MaxRounds:   *maxRounds,
		Rules:       rules,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulation failed: %v\n", err)
		os.Exit(1)
	}

	if *outPath != "" {
		out := struct {
			*simulation.Report
			Results []simulation.GameResult `json:"results"`
		}{Report: report, Results: report.Results}
		if err := utils.SaveJSON(*outPath, out); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
			os.Exit(1)
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode report: %v\n", err)
			os.Exit(1)
		}
		return
	}
	printReport(os.Stdout, report)
}

func printReport(w io.Writer, r *simulation.Report) {
	p := message.NewPrinter(language.English)
	title := cases.Title(language.English)

	p.Fprintf(w, "Games:     %d (seed %d, strategy %s, %v)\n", r.Games, r.Seed, r.Strategy, r.Elapsed.Round(time.Millisecond))
	p.Fprintf(w, "Rounds:    mean %.2f  stddev %.2f  min %d  max %d\n", r.Rounds.Mean, r.Rounds.StdDev, r.Rounds.Min, r.Rounds.Max)
	p.Fprintf(w, "           p50 %.1f  p90 %.1f  p99 %.1f\n", r.Rounds.P50, r.Rounds.P90, r.Rounds.P99)
	p.Fprintf(w, "Spins:     %d from %d purchases, %d penalties\n", r.Spins, r.Purchases, r.Penalties)
	p.Fprintf(w, "Coins:     %d wagered, %d won, %d lost to penalties\n", r.Wagered, r.Gain, r.Loss)
	p.Fprintf(w, "RTP:       %.2f%%\n", r.RTP*100)

	causes := make([]domain.GameOverCause, 0, len(r.Causes))
	for c := range r.Causes {
		causes = append(causes, c)
	}
	slices.Sort(causes)

	fmt.Fprintln(w, "Endings:")
	for _, c := range causes {
		n := r.Causes[c]
		label := title.String(strings.ReplaceAll(string(c), "_", " "))
		p.Fprintf(w, "  %-14s %d (%.1f%%)\n", label, n, 100*float64(n)/float64(r.Games))
	}
}
