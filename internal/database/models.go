package database

import "time"

// Team is a named group of members
type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"team_name"`
	Code      string    `json:"team_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member is a contributor tracked across Bugzilla, GitHub and commit e-mail
type Member struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	KerberosID    string `json:"kerberos_id"`
	Email         string `json:"email"`
	GitHubAccount string `json:"github_account"`
	Serving       bool   `json:"serving"`
	// MultiArchType 1 marks members left out of the multi-arch snapshot
	MultiArchType int       `json:"multi_arch_type"`
	TeamID        int64     `json:"team_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Repository is a tracked GitHub repository
type Repository struct {
	ID        int64     `json:"repository_id"`
	Owner     string    `json:"owner"`
	Repo      string    `json:"repo"`
	CreatedAt time.Time `json:"created_at"`
}

// PullState represents the GitHub state of a pull request
type PullState string

const (
	PullOpen   PullState = "open"
	PullClosed PullState = "closed"
)

// NullAlias is stored as merged_by when a pull was not merged by anyone
const NullAlias = "null"

// Pull is a pull request synced from GitHub
type Pull struct {
	ID           int64      `json:"id"`
	RepositoryID int64      `json:"repository_id"`
	Number       int        `json:"pull_number"`
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	State        PullState  `json:"state"`
	Merged       bool       `json:"merged"`
	MergedBy     string     `json:"merged_by"`
	Commits      int        `json:"commits"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	ChangedFiles int        `json:"changed_files"`
	Draft        bool       `json:"draft"`
	BugID        *string    `json:"bug_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
}

// HasReviewableUpdate reports whether the pull's last update reflects work on the patch.
// An untouched pull and a merged pull whose only later event was the merge itself do not count,
// nor does a merged pull without a close time.
func (p *Pull) HasReviewableUpdate() bool {
	if p.UpdatedAt.Equal(p.CreatedAt) {
		return false
	}
	if !p.Merged {
		return true
	}
	return p.ClosedAt != nil && !p.UpdatedAt.After(*p.ClosedAt)
}

// PendingPull is an open pull together with its author's identity and review activity
type PendingPull struct {
	Pull
	KerberosID     string `json:"kerberos_id"`
	TeamName       string `json:"team_name"`
	ReviewComments int    `json:"review_comments"`
}

// CommentType distinguishes issue comments from review comments
type CommentType int

const (
	IssueComment  CommentType = 0
	ReviewComment CommentType = 1
)

// Comment is a pull request comment along with the pull it belongs to
type Comment struct {
	ID         int64       `json:"comment_id"`
	Author     string      `json:"author"`
	Type       CommentType `json:"comment_type"`
	Body       string      `json:"body"`
	PullNumber int         `json:"pull_number"`
	PullAuthor string      `json:"pull_author"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Commit represents a single commit in a repository
type Commit struct {
	SHA        string    `json:"sha"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	Date       time.Time `json:"date"`
	PullNumber *int      `json:"pull_number,omitempty"`
}

// ProductBug is one row of a Bugzilla snapshot
type ProductBug struct {
	BugID      int64     `json:"bug_id"`
	Reporter   string    `json:"reporter"`
	QAContact  string    `json:"qa_contact"`
	Product    string    `json:"bug_product"`
	Component  string    `json:"component"`
	Priority   string    `json:"priority"`
	Whiteboard string    `json:"qa_whiteboard"`
	Status     string    `json:"status"`
	Resolution string    `json:"resolution"`
	Hardware   string    `json:"hardware,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
