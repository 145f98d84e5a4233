package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yohi/crfetch/internal/analysis"
	"github.com/yohi/crfetch/internal/ghoutput"
	"github.com/yohi/crfetch/internal/githubapi"
	"github.com/yohi/crfetch/internal/persona"
	"github.com/yohi/crfetch/internal/render"
)

// newAnalyzeCommand creates "analyze", the main command: fetch the pull
// request's comments, run the analysis core, and render the result.
func newAnalyzeCommand(opts *Options) *cobra.Command {
	var (
		prNumber       int
		format         string
		outputPath     string
		botAuthor      string
		resolvedMarker string
		markerFile     string
		personaFiles   []string
		withPersona    bool
		concurrency    int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Fetch and analyze CodeRabbit comments on a pull request",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			envVars := analyzeEnv{}
			if err := parseEnv(&envVars); err != nil {
				return err
			}
			if !cmd.Flags().Changed("pr") && envPresent("CRFETCH_PR_NUMBER") {
				prNumber = envVars.PR
			}
			if !cmd.Flags().Changed("bot") && envVars.Bot != "" {
				botAuthor = envVars.Bot
			}
			if !cmd.Flags().Changed("resolved-marker") && envVars.ResolvedMarker != "" {
				resolvedMarker = envVars.ResolvedMarker
			}
			if !cmd.Flags().Changed("markers") && envVars.MarkerFile != "" {
				markerFile = envVars.MarkerFile
			}
			if !cmd.Flags().Changed("format") && envVars.Format != "" {
				format = envVars.Format
			}
			if !cmd.Flags().Changed("concurrency") && envVars.Concurrency > 0 {
				concurrency = envVars.Concurrency
			}

			if prNumber <= 0 {
				return fmt.Errorf("analyze requires a positive --pr number")
			}

			renderer, err := render.ForFormat(format)
			if err != nil {
				return err
			}

			table := analysis.DefaultMarkers()
			if markerFile != "" {
				table, err = analysis.LoadMarkerTable(markerFile)
				if err != nil {
					return err
				}
			}
			if resolvedMarker != "" {
				table.ResolvedMarker = resolvedMarker
			}

			repo, err := resolveRepo(opts)
			if err != nil {
				return err
			}
			token, err := lookupGitHubToken()
			if err != nil {
				return err
			}
			client, err := githubapi.NewClient(logger, token, repo)
			if err != nil {
				return err
			}

			logger.Info("fetching pull request comments", "repo", repo, "pr", prNumber)
			comments, err := client.FetchPRComments(cmd.Context(), prNumber)
			if err != nil {
				return fmt.Errorf("fetch comments for PR #%d: %w", prNumber, err)
			}

			result, err := analysis.Analyze(cmd.Context(), toRawInputs(comments), analysis.Options{
				BotAuthor:   botAuthor,
				Markers:     table,
				Concurrency: concurrency,
				Logger:      logger,
			})
			if err != nil {
				return fmt.Errorf("analyze comments for PR #%d: %w", prNumber, err)
			}
			if result.Metadata.BotComments == 0 {
				logger.Info("no bot activity found on this pull request",
					"repo", repo, "pr", prNumber, "bot", botAuthor)
			}
			for _, note := range result.Metadata.Inconsistencies {
				logger.Warn("analysis inconsistency", "note", note)
			}

			out, err := renderer.Render(result)
			if err != nil {
				return err
			}

			if withPersona || len(personaFiles) > 0 {
				text, err := persona.Load(personaFiles)
				if err != nil {
					return err
				}
				out = text + "\n\n" + out
			}

			if err := writeOutput(outputPath, out); err != nil {
				return err
			}
			if err := ghoutput.WriteAnalysis(result); err != nil {
				logger.Warn("failed to write GitHub Actions outputs", "error", err)
			}

			logger.Info("analysis complete",
				"bot_comments", result.Metadata.BotComments,
				"actionable", result.Metadata.ActionableTotal,
				"unresolved_threads", len(result.UnresolvedThreads),
				"resolved_excluded", result.Metadata.ResolvedThreads,
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&prNumber, "pr", 0, "Pull Request number to analyze (required)")
	cmd.Flags().StringVarP(&format, "format", "f", render.FormatMarkdown, "Output format (markdown, json, plain)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().StringVar(&botAuthor, "bot", analysis.DefaultBotAuthor, "Bot author login to analyze")
	cmd.Flags().StringVar(&resolvedMarker, "resolved-marker", "", "Override the resolved marker token")
	cmd.Flags().StringVar(&markerFile, "markers", "", "Path to a marker table YAML overriding the built-in vocabulary")
	cmd.Flags().StringArrayVar(&personaFiles, "persona", nil, "Persona text file prepended to the output (repeatable)")
	cmd.Flags().BoolVar(&withPersona, "with-persona", false, "Prepend the built-in persona text")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Bound the analysis worker fan-out (0 = one per CPU)")

	return cmd
}

func toRawInputs(comments []githubapi.Comment) []analysis.RawInput {
	inputs := make([]analysis.RawInput, 0, len(comments))
	for _, c := range comments {
		in := analysis.RawInput{
			ID:        strconv.Itoa(c.ID),
			Author:    c.Author,
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
			ThreadID:  c.ThreadID,
		}
		if c.InReplyTo > 0 {
			in.InReplyTo = strconv.Itoa(c.InReplyTo)
		}
		inputs = append(inputs, in)
	}
	return inputs
}

func writeOutput(path, content string) error {
	if path == "" {
		_, err := os.Stdout.WriteString(content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output file %q: %w", path, err)
	}
	return nil
}
