package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"searchconsole-go/pkg/cache"
	"searchconsole-go/pkg/gsc"
	"searchconsole-go/pkg/logger"
	"searchconsole-go/pkg/settings"
)

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func main() {
	// Environment variable defaults (CI friendly)
	defaultSites := getEnvOrDefault("GSC_SITES", "")
	defaultToken := getEnvOrDefault("GSC_ACCESS_TOKEN", "")
	defaultEndpoint := getEnvOrDefault("GSC_ENDPOINT", "")
	defaultRateLimit := getEnvIntOrDefault("GSC_RATE_LIMIT", 10)
	defaultDataDir := getEnvOrDefault("GSC_DATA_DIR", "data")

	// Command line flags (override environment variables)
	var (
		sites     = flag.String("sites", defaultSites, "Comma-separated site properties (env: GSC_SITES)")
		token     = flag.String("token", defaultToken, "OAuth access token (env: GSC_ACCESS_TOKEN)")
		endpoint  = flag.String("endpoint", defaultEndpoint, "API base URL override (env: GSC_ENDPOINT)")
		rateLimit = flag.Int("rate-limit", defaultRateLimit, "Upstream requests per second (env: GSC_RATE_LIMIT)")
		dataDir   = flag.String("data-dir", defaultDataDir, "Settings directory (env: GSC_DATA_DIR)")
		startDate = flag.String("start", "", "Range start (YYYY-MM-DD), defaults to 28 days ago")
		endDate   = flag.String("end", "", "Range end (YYYY-MM-DD), defaults to yesterday")
		help      = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printUsage()
		return
	}

	if *sites == "" {
		fmt.Println("ERROR: At least one site property is required.")
		fmt.Println("Use -sites flag or GSC_SITES environment variable.")
		fmt.Println("")
		printUsage()
		os.Exit(1)
	}

	if *token == "" {
		fmt.Println("ERROR: An access token is required.")
		fmt.Println("Use -token flag or GSC_ACCESS_TOKEN environment variable.")
		fmt.Println("")
		printUsage()
		os.Exit(1)
	}

	// Search Console data lags by a couple of days; default to the
	// standard 28-day dashboard window ending yesterday.
	if *endDate == "" {
		*endDate = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	}
	if *startDate == "" {
		*startDate = time.Now().AddDate(0, 0, -28).Format("2006-01-02")
	}

	log := logger.GetLogger().WithField("component", "sync_cli")

	settingsStore, err := settings.NewStore(*dataDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to open settings store")
	}

	client := gsc.NewClient(
		gsc.Config{
			Endpoint:  *endpoint,
			RateLimit: *rateLimit,
		},
		&gsc.StaticTokenProvider{Token: *token},
		cache.NewMemoryStore(1000, gsc.DefaultCacheTTL),
		settingsStore,
		settingsStore,
	)

	siteList := strings.Split(*sites, ",")
	for i := range siteList {
		siteList[i] = strings.TrimSpace(siteList[i])
	}

	log.WithFields(map[string]interface{}{
		"sites": len(siteList),
		"start": *startDate,
		"end":   *endDate,
	}).Info("Starting warm-up sync")

	start := time.Now()
	if err := client.SyncData(context.Background(), *startDate, *endDate, siteList...); err != nil {
		log.WithError(err).Error("Sync completed with errors")
		os.Exit(1)
	}

	fmt.Printf("Synced %d site(s) in %s\n", len(siteList), time.Since(start).Round(time.Millisecond))
}

func printUsage() {
	fmt.Println("searchconsole-go - Search Console analytics cache warm-up")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  searchconsole-go -sites <site,...> -token <access-token> [options]")
	fmt.Println("")
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  searchconsole-go -sites https://example.com -token $TOKEN")
	fmt.Println("  searchconsole-go -sites sc-domain:example.com -start 2024-01-01 -end 2024-01-31 -token $TOKEN")
}
