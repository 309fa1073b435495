// Command fieldready-cli operates on the local single-file store:
// seeding demo data, rendering reports, and exporting history. The
// original deployment is local-first; nothing here needs the hub API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"fieldready/adapters/api"
	"fieldready/adapters/excel"
	"fieldready/adapters/sqlite"
	"fieldready/app"
	"fieldready/domain/anomaly"
	"fieldready/domain/core"
	"fieldready/domain/insight"
	"fieldready/internal"
	"fieldready/internal/config"
	"fieldready/internal/report"
	"fieldready/internal/testkit"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	var cmdErr error
	switch os.Args[1] {
	case "demo":
		cmdErr = runDemo(ctx, cfg, os.Args[2:])
	case "report":
		cmdErr = runReport(ctx, cfg, os.Args[2:])
	case "export":
		cmdErr = runExport(ctx, cfg, os.Args[2:])
	case "token":
		cmdErr = runToken(cfg, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if cmdErr != nil {
		log.Fatal(cmdErr)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  fieldready-cli demo [days]                      seed synthetic history, score it, store locally
  fieldready-cli report <user> <date>             print the markdown report for a stored day
  fieldready-cli export <user> <start> <end> <out.xlsx>
  fieldready-cli token <user> <device|soldier|admin>`)
}

func openEdgeStore(cfg config.Config) (*sqlite.ScoreStore, error) {
	return sqlite.Open(cfg.Edge.SQLitePath)
}

// runDemo generates a realistic biometric history, scores the final
// day, and persists the result to the edge store
func runDemo(ctx context.Context, cfg config.Config, args []string) error {
	days := 14
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			return fmt.Errorf("invalid day count %q", args[0])
		}
		days = parsed
	}

	genCfg := testkit.DefaultBiometricConfig(core.UserID("demo-user"), core.DayOf(time.Now()))
	genCfg.Days = days

	metricStore := testkit.NewInMemoryMetricStore()
	metricStore.Seed(testkit.NewBiometricGenerator(genCfg).GenerateSamples())

	edge, err := openEdgeStore(cfg)
	if err != nil {
		return err
	}
	defer edge.Close()

	logger := internal.NewLogger(internal.LevelFromName(cfg.Log.Level))
	engine := app.NewReadinessEngine(metricStore, testkit.NewInMemoryManualStore(),
		testkit.NewInMemoryProfileStore(), edge, logger)

	result, err := engine.CalculateAll(ctx, genCfg.UserID, genCfg.EndDay)
	if err != nil {
		return fmt.Errorf("calculate demo readiness: %w", err)
	}

	insights, err := engine.GenerateInsights(ctx, genCfg.UserID, genCfg.EndDay)
	if err != nil {
		return err
	}
	alerts, err := engine.DetectAnomalies(ctx, genCfg.UserID, genCfg.EndDay)
	if err != nil {
		return err
	}

	daily := report.Daily{Result: result, Insights: insights, Alerts: alerts}
	fmt.Print(daily.Markdown())
	fmt.Printf("\nstored as %s / %s in %s\n", result.UserID, result.Date, cfg.Edge.SQLitePath)
	return nil
}

func runReport(ctx context.Context, cfg config.Config, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: report <user> <date>")
	}
	day, err := core.ParseDay(args[1])
	if err != nil {
		return err
	}

	edge, err := openEdgeStore(cfg)
	if err != nil {
		return err
	}
	defer edge.Close()

	userID := core.UserID(args[0])
	result, err := edge.GetScore(ctx, userID, day)
	if err != nil {
		return err
	}
	trend, err := edge.GetTrend(ctx, userID, app.TrendDays, day.AddDays(-1))
	if err != nil {
		return err
	}

	daily := report.Daily{
		Result:   result,
		Insights: insight.Generate(result, trend),
		Alerts:   anomaly.NewDetector().Detect(result, trend),
	}
	fmt.Print(daily.Markdown())
	return nil
}

func runExport(ctx context.Context, cfg config.Config, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: export <user> <start> <end> <out.xlsx>")
	}
	start, err := core.ParseDay(args[1])
	if err != nil {
		return err
	}
	end, err := core.ParseDay(args[2])
	if err != nil {
		return err
	}

	edge, err := openEdgeStore(cfg)
	if err != nil {
		return err
	}
	defer edge.Close()

	exporter := excel.NewHistoryExporter(edge)
	if err := exporter.Export(ctx, core.UserID(args[0]), start, end, args[3]); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[3])
	return nil
}

func runToken(cfg config.Config, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: token <user> <device|soldier|admin>")
	}
	if cfg.Server.JWTSecret == "" {
		return fmt.Errorf("server.jwt_secret must be configured to mint tokens")
	}
	role := api.Role(args[1])
	switch role {
	case api.RoleDevice, api.RoleSoldier, api.RoleAdmin:
	default:
		return fmt.Errorf("unknown role %q", args[1])
	}

	issuer := api.NewTokenIssuer(cfg.Server.JWTSecret, cfg.Server.TokenTTL)
	token, err := issuer.Issue(core.UserID(args[0]), role)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
