// Package staticactivity serves activity summaries from JSON files on disk,
// one file per user under Root. It stands in for a real social-feed analyzer
// in deployments that export summaries out of band.
package staticactivity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"famiverse/internal/app/ports"
)

type Provider struct {
	Root string
}

var ErrInvalidUserID = errors.New("invalid activity user id")

func (p Provider) Summary(_ context.Context, userID string) (ports.ActivitySummary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || strings.ContainsAny(userID, `/\`) {
		return ports.ActivitySummary{}, ErrInvalidUserID
	}

	b, err := os.ReadFile(filepath.Join(p.Root, userID+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ports.ActivitySummary{}, ports.ErrNotFound
		}
		return ports.ActivitySummary{}, fmt.Errorf("read activity summary: %w", err)
	}

	var out ports.ActivitySummary
	if err := json.Unmarshal(b, &out); err != nil {
		return ports.ActivitySummary{}, fmt.Errorf("decode activity summary: %w", err)
	}
	if out.DominantCategory == "" {
		out.DominantCategory = dominant(out.Categories)
	}
	return out, nil
}

func dominant(counts map[string]int) string {
	best := ""
	bestN := 0
	for cat, n := range counts {
		if n > bestN || (n == bestN && cat < best) {
			best, bestN = cat, n
		}
	}
	return best
}
