package projects

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// DefaultCloneTimeout bounds a single git clone.
const DefaultCloneTimeout = 2 * time.Minute

var scpLikeURL = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:[^\s]+$`)

// ValidateRepoURL accepts http(s), ssh and git URLs plus scp-like
// user@host:path addresses.
func ValidateRepoURL(repoURL string) error {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" || strings.HasPrefix(repoURL, "-") {
		return ErrInvalidRepoURL
	}
	if scpLikeURL.MatchString(repoURL) {
		return nil
	}

	u, err := url.Parse(repoURL)
	if err != nil || u.Host == "" {
		return ErrInvalidRepoURL
	}
	switch u.Scheme {
	case "http", "https", "ssh", "git":
		return nil
	}
	return ErrInvalidRepoURL
}

// GitCloner shells out to the git binary.
type GitCloner struct {
	Timeout time.Duration
}

func NewGitCloner(timeout time.Duration) *GitCloner {
	if timeout <= 0 {
		timeout = DefaultCloneTimeout
	}
	return &GitCloner{Timeout: timeout}
}

// Clone performs a shallow clone of repoURL into dir.
func (g *GitCloner) Clone(ctx context.Context, repoURL, dir string) error {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", "--", repoURL, dir)
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("git clone timed out after %s: %w", g.Timeout, ctx.Err())
		}
		return fmt.Errorf("git clone failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
