// Package repo checks repositories out of GitHub so classes inside
// them can be analyzed without a local working copy.
package repo

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/rs/zerolog/log"

	"github.com/testlens-hq/testlens/internal/parser"
)

// Service handles repository checkout operations
type Service struct {
	baseDir string
	token   string
}

// NewService creates a new repository service
func NewService(baseDir, token string) *Service {
	return &Service{
		baseDir: baseDir,
		token:   token,
	}
}

// Info contains parsed repository information
type Info struct {
	Owner    string
	Name     string
	URL      string
	CloneURL string
	Branch   string
}

// CloneResult contains the result of a clone operation
type CloneResult struct {
	Path      string
	CommitSHA string
	Branch    string
}

// ParseURL parses a GitHub URL and returns repo info
func ParseURL(rawURL string) (*Info, error) {
	// Handle git@github.com:owner/repo.git format
	if strings.HasPrefix(rawURL, "git@") {
		parts := strings.Split(rawURL, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid SSH URL format: %s", rawURL)
		}
		pathParts := strings.Split(strings.TrimSuffix(parts[1], ".git"), "/")
		if len(pathParts) != 2 {
			return nil, fmt.Errorf("invalid repo path: %s", parts[1])
		}
		return &Info{
			Owner:    pathParts[0],
			Name:     pathParts[1],
			URL:      rawURL,
			CloneURL: fmt.Sprintf("https://github.com/%s/%s.git", pathParts[0], pathParts[1]),
			Branch:   "main",
		}, nil
	}

	// Parse HTTPS URL
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	if parsed.Host != "github.com" {
		return nil, fmt.Errorf("only github.com URLs are supported, got: %s", parsed.Host)
	}

	pathParts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(pathParts) < 2 {
		return nil, fmt.Errorf("invalid repo path: %s", parsed.Path)
	}

	owner := pathParts[0]
	name := strings.TrimSuffix(pathParts[1], ".git")

	return &Info{
		Owner:    owner,
		Name:     name,
		URL:      rawURL,
		CloneURL: fmt.Sprintf("https://github.com/%s/%s.git", owner, name),
		Branch:   "main",
	}, nil
}

// Clone checks a repository out into the service workspace. Any
// existing checkout of the same repository is replaced.
func (s *Service) Clone(ctx context.Context, info *Info) (*CloneResult, error) {
	repoDir := filepath.Join(s.baseDir, info.Owner, info.Name)

	if _, err := os.Stat(repoDir); err == nil {
		log.Debug().Str("path", repoDir).Msg("removing existing checkout")
		if err := os.RemoveAll(repoDir); err != nil {
			return nil, fmt.Errorf("failed to remove existing directory: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(repoDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	log.Info().
		Str("url", info.CloneURL).
		Str("path", repoDir).
		Msg("cloning repository")

	// Shallow clone, analysis only needs the tip of the tree
	cloneOpts := &git.CloneOptions{
		URL:   info.CloneURL,
		Depth: 1,
	}

	if s.token != "" {
		cloneOpts.Auth = &http.BasicAuth{
			Username: "git", // Can be anything for token auth
			Password: s.token,
		}
	}

	if info.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(info.Branch)
		cloneOpts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, repoDir, false, cloneOpts)
	if err != nil {
		// If the branch doesn't exist, retry on the default branch
		if strings.Contains(err.Error(), "reference not found") && info.Branch != "" {
			log.Debug().Str("branch", info.Branch).Msg("branch not found, trying default")
			cloneOpts.ReferenceName = ""
			cloneOpts.SingleBranch = false
			repo, err = git.PlainCloneContext(ctx, repoDir, false, cloneOpts)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to clone: %w", err)
		}
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	result := &CloneResult{
		Path:      repoDir,
		CommitSHA: head.Hash().String(),
		Branch:    head.Name().Short(),
	}

	log.Info().
		Str("commit", result.CommitSHA[:8]).
		Str("branch", result.Branch).
		Msg("clone complete")

	return result, nil
}

// SourceFiles walks a checkout and returns the analyzable source files,
// relative to root. Include and exclude patterns come from project
// config; patterns are matched against base names, directory patterns
// like "**/generated/**" against directory names.
func SourceFiles(root string, include, exclude []string) ([]string, error) {
	includeFiles, _ := splitPatterns(include)
	excludeFiles, excludeDirs := splitPatterns(exclude)

	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			name := info.Name()
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if name == "node_modules" || name == "vendor" || matchesAny(name, excludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}

		base := filepath.Base(path)
		if matchesAny(base, excludeFiles) {
			return nil
		}
		if len(includeFiles) > 0 && !matchesAny(base, includeFiles) {
			return nil
		}
		if parser.DetectLanguage(path) == parser.LanguageUnknown {
			return nil
		}

		relPath, _ := filepath.Rel(root, path)
		files = append(files, relPath)
		return nil
	})

	return files, err
}

// CountLanguages tallies source files under root by detected language
func CountLanguages(root string) (map[string]int, error) {
	counts := make(map[string]int)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			name := info.Name()
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if name == "node_modules" || name == "vendor" {
				return filepath.SkipDir
			}
			return nil
		}

		if lang := parser.DetectLanguage(path); lang != parser.LanguageUnknown {
			counts[string(lang)]++
		}
		return nil
	})

	return counts, err
}

// splitPatterns separates file patterns from directory patterns like
// "**/generated/**", reducing each to the segment that names it.
func splitPatterns(patterns []string) (filePats, dirPats []string) {
	for _, p := range patterns {
		if strings.HasSuffix(p, "/**") {
			dirPats = append(dirPats, filepath.Base(strings.TrimSuffix(p, "/**")))
			continue
		}
		filePats = append(filePats, filepath.Base(p))
	}
	return filePats, dirPats
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "**" {
			continue
		}
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
