// Package main provides a standalone readiness probe for the pantry service.
// It is meant for container health checks and monitoring scripts.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/pkg/healthcheck"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

// Options holds command-line configuration
type Options struct {
	URL          string
	Timeout      time.Duration
	Verbose      bool
	OutputFormat string
	RetryCount   int
	RetryDelay   time.Duration
	ConfigPath   string
}

type probeResult struct {
	Status string `json:"status"`
	Checks []struct {
		Name    string             `json:"name"`
		Status  healthcheck.Status `json:"status"`
		Message string             `json:"message,omitempty"`
	} `json:"checks"`
}

func main() {
	os.Exit(run(parseFlags()))
}

func parseFlags() Options {
	opts := Options{}

	flag.StringVar(&opts.URL, "url", "", "Readiness endpoint URL (default derived from configuration)")
	flag.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "Request timeout")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Verbose output")
	flag.StringVar(&opts.OutputFormat, "format", "text", "Output format: text, json")
	flag.IntVar(&opts.RetryCount, "retry", 0, "Number of retries on failure")
	flag.DurationVar(&opts.RetryDelay, "retry-delay", time.Second, "Delay between retries")
	flag.StringVar(&opts.ConfigPath, "config", "", "Configuration file path")

	flag.Parse()
	return opts
}

func run(opts Options) int {
	if opts.URL == "" {
		url, err := readinessURL(opts.ConfigPath)
		if err != nil {
			fmt.Printf("Failed to load configuration: %v\n", err)
			return exitCodeError
		}
		opts.URL = url
	}

	client := &http.Client{Timeout: opts.Timeout}

	var lastError error
	for attempt := 0; attempt <= opts.RetryCount; attempt++ {
		if attempt > 0 {
			if opts.Verbose {
				fmt.Printf("Retrying in %v... (attempt %d/%d)\n", opts.RetryDelay, attempt, opts.RetryCount)
			}
			time.Sleep(opts.RetryDelay)
		}

		resp, err := client.Get(opts.URL)
		if err != nil {
			lastError = err
			if opts.Verbose {
				fmt.Printf("Request failed: %v\n", err)
			}
			continue
		}

		return handleResponse(resp, opts)
	}

	fmt.Printf("Health check failed after %d attempts: %v\n", opts.RetryCount+1, lastError)
	return exitCodeError
}

func readinessURL(configPath string) (string, error) {
	if url := os.Getenv("HEALTH_CHECK_URL"); url != "" {
		return url, nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("http://127.0.0.1:%d%s", cfg.Monitoring.MetricsPort, cfg.Monitoring.ReadinessPath), nil
}

func handleResponse(resp *http.Response, opts Options) int {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Failed to read response: %v\n", err)
		return exitCodeError
	}

	if opts.OutputFormat == "json" {
		fmt.Println(string(body))
	} else {
		var result probeResult
		if err := json.Unmarshal(body, &result); err != nil {
			fmt.Printf("Status: %s\n", resp.Status)
		} else {
			fmt.Printf("Status: %s\n", result.Status)
			if opts.Verbose {
				for _, c := range result.Checks {
					fmt.Printf("  %-14s %-10s %s\n", c.Name, c.Status, c.Message)
				}
			}
		}
	}

	if resp.StatusCode != http.StatusOK {
		return exitCodeFailure
	}
	return exitCodeSuccess
}
