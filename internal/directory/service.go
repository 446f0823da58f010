// Package directory maintains the branch list the statistics engine fans
// out over. The list comes from the upstream POS API and is cached in Redis;
// reconciled statistics themselves are never cached.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tavola-pos/tavola-admin/internal/stats"
)

const branchesCacheKey = "directory:branches"

var (
	branchIDFields   = stats.FieldCandidates{"id", "branch_id"}
	branchNameFields = stats.FieldCandidates{"name", "branch_name", "title"}
)

var titleCaser = cases.Title(language.English)

// Lister fetches the raw branch directory from upstream.
type Lister interface {
	FetchBranches(ctx context.Context) (json.RawMessage, error)
}

// Service resolves and caches the branch directory.
type Service struct {
	lister Lister
	cache  *Cache
	logger *slog.Logger
}

// NewService wires a Lister with the cache helper.
func NewService(lister Lister, cache *Cache, logger *slog.Logger) *Service {
	return &Service{lister: lister, cache: cache, logger: logger}
}

// ListBranches returns the branch directory, served from cache when warm.
func (s *Service) ListBranches(ctx context.Context) ([]stats.Branch, error) {
	var branches []stats.Branch
	hit, err := s.cache.Get(ctx, branchesCacheKey, &branches)
	if err != nil {
		s.logger.Warn("branch directory cache read failed", slog.Any("error", err))
	} else if hit {
		return branches, nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches the directory from upstream and repopulates the cache.
func (s *Service) Refresh(ctx context.Context) ([]stats.Branch, error) {
	raw, err := s.lister.FetchBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("directory: fetch branches: %w", err)
	}
	rows, recognized := stats.NormalizeEnvelope(raw)
	if !recognized {
		return nil, errors.New("directory: malformed branches payload")
	}

	branches := make([]stats.Branch, 0, len(rows))
	for _, row := range rows {
		branch := mapBranch(row)
		if branch.ID == "" {
			continue
		}
		branches = append(branches, branch)
	}

	if err := s.cache.Set(ctx, branchesCacheKey, branches); err != nil {
		s.logger.Warn("branch directory cache write failed", slog.Any("error", err))
	}
	return branches, nil
}

// Find returns the branch with the given id.
func (s *Service) Find(ctx context.Context, branchID string) (stats.Branch, error) {
	branches, err := s.ListBranches(ctx)
	if err != nil {
		return stats.Branch{}, err
	}
	for _, b := range branches {
		if b.ID == strings.TrimSpace(branchID) {
			return b, nil
		}
	}
	return stats.Branch{}, fmt.Errorf("directory: branch %s not found", branchID)
}

func mapBranch(row map[string]any) stats.Branch {
	var branch stats.Branch
	if v, ok := branchIDFields.First(row); ok {
		if s, isString := v.(string); isString {
			branch.ID = strings.TrimSpace(s)
		} else if f, isFloat := v.(float64); isFloat {
			branch.ID = fmt.Sprintf("%.0f", f)
		}
	}
	if v, ok := branchNameFields.First(row); ok {
		if s, isString := v.(string); isString {
			branch.Name = displayName(s)
		}
	}
	return branch
}

// displayName normalizes lazily-cased branch names ("downtown", "AIRPORT")
// while leaving deliberately mixed-case names untouched.
func displayName(name string) string {
	name = strings.TrimSpace(name)
	if name == strings.ToLower(name) || name == strings.ToUpper(name) {
		return titleCaser.String(strings.ToLower(name))
	}
	return name
}
