package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yohi/crfetch/internal/analysis"
	"github.com/yohi/crfetch/internal/githubapi"
	"github.com/yohi/crfetch/internal/render"
)

// newRequestResolutionCommand creates "request-resolution": analyze the pull
// request and post a comment asking the bot to confirm each unresolved
// thread with the resolved marker.
func newRequestResolutionCommand(opts *Options) *cobra.Command {
	var (
		prNumber       int
		botAuthor      string
		resolvedMarker string
		markerFile     string
		dryRun         bool
	)

	cmd := &cobra.Command{
		Use:   "request-resolution",
		Short: "Ask the bot to confirm resolution of open review threads",
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

			if prNumber <= 0 {
				return fmt.Errorf("request-resolution requires a positive --pr number")
			}

			table := analysis.DefaultMarkers()
			var err error
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

			comments, err := client.FetchPRComments(cmd.Context(), prNumber)
			if err != nil {
				return fmt.Errorf("fetch comments for PR #%d: %w", prNumber, err)
			}

			result, err := analysis.Analyze(cmd.Context(), toRawInputs(comments), analysis.Options{
				BotAuthor: botAuthor,
				Markers:   table,
				Logger:    logger,
			})
			if err != nil {
				return fmt.Errorf("analyze comments for PR #%d: %w", prNumber, err)
			}

			if len(result.UnresolvedThreads) == 0 {
				logger.Info("no unresolved threads, nothing to request", "pr", prNumber)
				return nil
			}

			body, err := render.RenderResolutionRequest(result.UnresolvedThreads, table.ResolvedMarker)
			if err != nil {
				return err
			}

			if dryRun {
				return writeOutput("", body)
			}

			if err := client.PostComment(cmd.Context(), prNumber, body); err != nil {
				return err
			}
			logger.Info("resolution request posted",
				"pr", prNumber,
				"threads", len(result.UnresolvedThreads),
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&prNumber, "pr", 0, "Pull Request number (required)")
	cmd.Flags().StringVar(&botAuthor, "bot", analysis.DefaultBotAuthor, "Bot author login to analyze")
	cmd.Flags().StringVar(&resolvedMarker, "resolved-marker", "", "Override the resolved marker token")
	cmd.Flags().StringVar(&markerFile, "markers", "", "Path to a marker table YAML overriding the built-in vocabulary")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the request comment instead of posting it")

	return cmd
}
