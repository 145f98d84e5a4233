// Package githubapi provides minimal GitHub API models for GraphQL responses.
package githubapi

// Comment is one raw pull request comment as fetched from GitHub. Bodies are
// passed through unmodified; downstream classification depends on exact
// bytes.
type Comment struct {
	// ID is the GitHub comment database ID.
	ID int
	// Author is the GitHub login of the comment author.
	Author string
	// URL is the canonical URL of the comment.
	URL string
	// Body is the raw markdown body of the comment.
	Body string
	// ThreadID identifies the review thread in GraphQL; empty for top-level
	// (issue-level) comments.
	ThreadID string
	// InReplyTo is the database ID of the parent review comment, zero for
	// top-level comments and thread openers.
	InReplyTo int
	// CreatedAt is the ISO timestamp of comment creation.
	CreatedAt string
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type issueCommentsResponse struct {
	Data struct {
		Repository struct {
			PullRequest struct {
				Comments struct {
					Nodes    []commentNode `json:"nodes"`
					PageInfo pageInfo      `json:"pageInfo"`
				} `json:"comments"`
			} `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
}

type commentNode struct {
	DatabaseID      int    `json:"databaseId"`
	Body            string `json:"body"`
	URL             string `json:"url"`
	CreatedAt       string `json:"createdAt"`
	IsMinimized     bool   `json:"isMinimized"`
	MinimizedReason string `json:"minimizedReason"`
	Author          struct {
		Login string `json:"login"`
	} `json:"author"`
	ReplyTo struct {
		DatabaseID int `json:"databaseId"`
	} `json:"replyTo"`
}

type reviewThreadsResponse struct {
	Data struct {
		Repository struct {
			PullRequest struct {
				ReviewThreads struct {
					Nodes    []reviewThreadNode `json:"nodes"`
					PageInfo pageInfo           `json:"pageInfo"`
				} `json:"reviewThreads"`
			} `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
}

type reviewThreadNode struct {
	ID       string             `json:"id"`
	Comments reviewCommentBlock `json:"comments"`
}

type reviewCommentBlock struct {
	Nodes    []commentNode `json:"nodes"`
	PageInfo pageInfo      `json:"pageInfo"`
}
