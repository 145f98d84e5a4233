// Package githubapi provides a simple GitHub API client using the GitHub CLI.
package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/yohi/crfetch/internal/logging"
)

type Client struct {
	logger *slog.Logger
	token  string
	repo   string
	owner  string
	name   string
}

func NewClient(logger *slog.Logger, token, repo string) (*Client, error) {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return nil, fmt.Errorf("repository is empty")
	}
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return nil, fmt.Errorf("invalid repository slug %q, expected owner/repo", repo)
	}
	return &Client{
		logger: logger,
		token:  token,
		repo:   repo,
		owner:  parts[0],
		name:   parts[1],
	}, nil
}

// FetchPRComments returns every comment attached to a pull request: the
// issue-level comments first, then the review-thread comments, preserving
// GitHub's pagination order within each group. That order is the determinism
// anchor for everything downstream. Minimized comments are skipped; resolved
// threads are NOT skipped here, resolution is decided by the analyzer from
// the comment bodies.
func (c *Client) FetchPRComments(ctx context.Context, number int) ([]Comment, error) {
	issue, err := c.fetchIssueComments(ctx, number)
	if err != nil {
		return nil, err
	}
	review, err := c.fetchReviewThreadComments(ctx, number)
	if err != nil {
		return nil, err
	}
	return append(issue, review...), nil
}

func (c *Client) fetchIssueComments(ctx context.Context, number int) ([]Comment, error) {
	if number <= 0 {
		return nil, fmt.Errorf("pr number must be positive")
	}
	query := `query($owner: String!, $name: String!, $number: Int!, $after: String) {
  repository(owner: $owner, name: $name) {
    pullRequest(number: $number) {
      comments(first: 100, after: $after) {
        nodes {
          databaseId
          body
          url
          createdAt
          isMinimized
          minimizedReason
          author { login }
        }
        pageInfo { hasNextPage endCursor }
      }
    }
  }
}`

	var out []Comment
	var after string
	for {
		resp := issueCommentsResponse{}
		vars := map[string]any{
			"owner":  c.owner,
			"name":   c.name,
			"number": number,
		}
		if after != "" {
			vars["after"] = after
		}
		if err := c.runGraphQL(ctx, query, vars, &resp); err != nil {
			return nil, err
		}
		for _, node := range resp.Data.Repository.PullRequest.Comments.Nodes {
			if node.IsMinimized || strings.TrimSpace(node.MinimizedReason) != "" {
				continue
			}
			out = append(out, Comment{
				ID:        node.DatabaseID,
				Author:    strings.TrimSpace(node.Author.Login),
				URL:       strings.TrimSpace(node.URL),
				Body:      node.Body,
				CreatedAt: strings.TrimSpace(node.CreatedAt),
			})
		}
		if !resp.Data.Repository.PullRequest.Comments.PageInfo.HasNextPage {
			break
		}
		after = resp.Data.Repository.PullRequest.Comments.PageInfo.EndCursor
		if after == "" {
			break
		}
	}
	return out, nil
}

func (c *Client) fetchReviewThreadComments(ctx context.Context, number int) ([]Comment, error) {
	if number <= 0 {
		return nil, fmt.Errorf("pr number must be positive")
	}
	query := `query($owner: String!, $name: String!, $number: Int!, $after: String) {
  repository(owner: $owner, name: $name) {
    pullRequest(number: $number) {
      reviewThreads(first: 50, after: $after) {
        nodes {
          id
          comments(first: 100) {
            nodes {
              databaseId
              body
              url
              createdAt
              isMinimized
              minimizedReason
              author { login }
              replyTo { databaseId }
            }
            pageInfo { hasNextPage endCursor }
          }
        }
        pageInfo { hasNextPage endCursor }
      }
    }
  }
}`

	var out []Comment
	var after string
	for {
		resp := reviewThreadsResponse{}
		vars := map[string]any{
			"owner":  c.owner,
			"name":   c.name,
			"number": number,
		}
		if after != "" {
			vars["after"] = after
		}
		if err := c.runGraphQL(ctx, query, vars, &resp); err != nil {
			return nil, err
		}
		for _, thread := range resp.Data.Repository.PullRequest.ReviewThreads.Nodes {
			for _, node := range thread.Comments.Nodes {
				if node.IsMinimized || strings.TrimSpace(node.MinimizedReason) != "" {
					continue
				}
				out = append(out, Comment{
					ID:        node.DatabaseID,
					Author:    strings.TrimSpace(node.Author.Login),
					URL:       strings.TrimSpace(node.URL),
					Body:      node.Body,
					ThreadID:  thread.ID,
					InReplyTo: node.ReplyTo.DatabaseID,
					CreatedAt: strings.TrimSpace(node.CreatedAt),
				})
			}
		}
		if !resp.Data.Repository.PullRequest.ReviewThreads.PageInfo.HasNextPage {
			break
		}
		after = resp.Data.Repository.PullRequest.ReviewThreads.PageInfo.EndCursor
		if after == "" {
			break
		}
	}
	return out, nil
}

// PostComment posts a new top-level comment on the pull request via gh.
func (c *Client) PostComment(ctx context.Context, number int, body string) error {
	if number <= 0 {
		return fmt.Errorf("pr number must be positive")
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment body is empty")
	}

	args := []string{
		"pr", "comment", strconv.Itoa(number),
		"--repo", c.repo,
		"--body", body,
	}

	cmd := exec.CommandContext(ctx, "gh", args...)
	cmd.Stdout = logging.NewWriter(c.logger, slog.LevelDebug)
	cmd.Stderr = logging.NewWriter(c.logger, slog.LevelWarn)

	env := os.Environ()
	env = append(env, "GITHUB_TOKEN="+c.token, "GH_TOKEN="+c.token)
	cmd.Env = env

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gh pr comment for PR %d failed: %w", number, err)
	}
	return nil
}

func (c *Client) runGraphQL(ctx context.Context, query string, vars map[string]any, out any) error {
	args := []string{"api", "graphql", "-f", "query=" + query}
	for key, val := range vars {
		if val == nil {
			continue
		}
		switch v := val.(type) {
		case int, int32, int64, uint, uint32, uint64, float32, float64, bool:
			args = append(args, "-F", fmt.Sprintf("%s=%v", key, v))
			continue
		}
		str := fmt.Sprintf("%v", val)
		if str == "" {
			continue
		}
		args = append(args, "-f", fmt.Sprintf("%s=%s", key, str))
	}
	if c.logger != nil {
		c.logger.Debug("github graphql query", "repo", c.repo, "args", args)
	}

	cmd := exec.CommandContext(ctx, "gh", args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = logging.NewWriter(c.logger, slog.LevelWarn)

	env := os.Environ()
	env = append(env, "GITHUB_TOKEN="+c.token, "GH_TOKEN="+c.token)
	cmd.Env = env

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gh api graphql failed: %w", err)
	}

	if err := json.Unmarshal(stdout.Bytes(), out); err != nil {
		return fmt.Errorf("decode github graphql response: %w", err)
	}
	return nil
}
