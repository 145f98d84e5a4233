package cli

import (
	"fmt"
	"os"
	"strings"

	envparse "github.com/caarlos0/env/v11"

	"github.com/yohi/crfetch/internal/env"
)

// baseEnv defines root CLI defaults sourced from CRFETCH_* env vars.
type baseEnv struct {
	// Repo is the owner/repo slug from CRFETCH_REPO.
	Repo string `env:"CRFETCH_REPO"`
	// LogLevel is the logging level from CRFETCH_LOG_LEVEL.
	LogLevel string `env:"CRFETCH_LOG_LEVEL"`
	// EnvFiles is a comma-separated list of .env files from CRFETCH_ENV_FILE,
	// loaded before the remaining variables are read.
	EnvFiles []string `env:"CRFETCH_ENV_FILE" envSeparator:","`
}

// analyzeEnv captures CRFETCH_* inputs for the analyze command.
type analyzeEnv struct {
	// PR is the pull request number from CRFETCH_PR_NUMBER.
	PR int `env:"CRFETCH_PR_NUMBER"`
	// Bot is the bot author login from CRFETCH_BOT_AUTHOR.
	Bot string `env:"CRFETCH_BOT_AUTHOR"`
	// ResolvedMarker overrides the resolved marker from CRFETCH_RESOLVED_MARKER.
	ResolvedMarker string `env:"CRFETCH_RESOLVED_MARKER"`
	// MarkerFile is a marker table YAML path from CRFETCH_MARKER_FILE.
	MarkerFile string `env:"CRFETCH_MARKER_FILE"`
	// Format is the output format from CRFETCH_FORMAT.
	Format string `env:"CRFETCH_FORMAT"`
	// Concurrency bounds the analysis fan-out from CRFETCH_CONCURRENCY.
	Concurrency int `env:"CRFETCH_CONCURRENCY"`
}

// loadBaseEnv reads the root defaults, honoring CRFETCH_ENV_FILE: variables
// from the listed .env files fill in anything the process environment does
// not already set.
func loadBaseEnv() (baseEnv, error) {
	var files baseEnv
	if err := envparse.Parse(&files); err != nil {
		return baseEnv{}, fmt.Errorf("parse CRFETCH env vars: %w", err)
	}

	environment := env.FromOS()
	if len(files.EnvFiles) > 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return baseEnv{}, err
		}
		fileVars, err := env.LoadEnvFiles(cwd, files.EnvFiles)
		if err != nil {
			return baseEnv{}, err
		}
		// Process environment wins over file contents.
		environment = env.Merge(fileVars, environment)
	}

	var base baseEnv
	if err := envparse.ParseWithOptions(&base, envparse.Options{Environment: environment}); err != nil {
		return baseEnv{}, fmt.Errorf("parse CRFETCH env vars: %w", err)
	}
	return base, nil
}

// parseEnv fills target from CRFETCH_* env vars via caarlos0/env.
func parseEnv(target any) error {
	return envparse.Parse(target)
}

// envPresent reports whether a non-empty env var exists.
func envPresent(key string) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return false
	}
	return strings.TrimSpace(val) != ""
}

// lookupGitHubToken returns the first configured GitHub token.
func lookupGitHubToken() (string, error) {
	candidates := []string{
		os.Getenv("CRFETCH_GH_TOKEN"),
		os.Getenv("GH_TOKEN"),
		os.Getenv("GITHUB_TOKEN"),
	}
	for _, v := range candidates {
		if strings.TrimSpace(v) != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("GitHub token is required; set CRFETCH_GH_TOKEN or GH_TOKEN or GITHUB_TOKEN")
}

// resolveRepo picks the repository slug from the flag or environment.
func resolveRepo(opts *Options) (string, error) {
	repo := strings.TrimSpace(opts.Repo)
	if repo == "" {
		repo = strings.TrimSpace(os.Getenv("GITHUB_REPOSITORY"))
	}
	if repo == "" {
		return "", fmt.Errorf("repository is required; pass --repo or set CRFETCH_REPO / GITHUB_REPOSITORY")
	}
	return repo, nil
}
