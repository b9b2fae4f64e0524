// Package board partitions projects into named, ordered boards.
//
// Membership is primarily the explicit BoardID on a project. Older rows
// encode it as a "[board:<slug>]" marker inside the description; both are
// resolved here, and every project always resolves to exactly one board.
package board

import (
	"regexp"
	"strings"

	"github.com/pollenhq/pollen/internal/store"
)

// DefaultBoards is seeded for an owner who has no boards yet.
var DefaultBoards = []string{"YelloSKYE", "Enterprise", "Building Cool Stuff"}

var (
	markerRe     = regexp.MustCompile(`\[board:(.*?)\]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Slugify lowercases a board name and collapses whitespace runs to a
// single hyphen. Pure and total for any non-empty name.
func Slugify(name string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(name), "-")
}

// ExtractSlug returns the slug of the first board marker embedded in the
// project description, or "" when no marker is present.
func ExtractSlug(p store.Project) string {
	m := markerRe.FindStringSubmatch(p.Description)
	if m == nil {
		return ""
	}
	return m[1]
}

// CleanDescription strips every board marker from a description.
func CleanDescription(desc string) string {
	return strings.TrimSpace(markerRe.ReplaceAllString(desc, ""))
}

// InjectMarker rewrites desc to carry exactly one marker for boardName.
func InjectMarker(desc, boardName string) string {
	cleaned := CleanDescription(desc)
	return strings.TrimSpace(cleaned + " [board:" + Slugify(boardName) + "]")
}

// Resolve maps a project to exactly one board. BoardID wins, then the
// embedded marker slug, then the first board by position. Boards must be
// position-ordered; with duplicate slugs the first by position wins.
// Returns nil only for an empty boards list.
func Resolve(p store.Project, boards []store.Board) *store.Board {
	if len(boards) == 0 {
		return nil
	}
	if p.BoardID != "" {
		for i := range boards {
			if boards[i].ID == p.BoardID {
				return &boards[i]
			}
		}
	}
	if slug := ExtractSlug(p); slug != "" {
		for i := range boards {
			if Slugify(boards[i].Name) == slug {
				return &boards[i]
			}
		}
	}
	return &boards[0]
}

// GroupByBoard partitions projects by board id, keeping projects in
// input order within each group. Every board gets a group, empty or not;
// boards sharing a name keep distinct groups.
func GroupByBoard(projects []store.Project, boards []store.Board) map[string][]store.Project {
	grouped := make(map[string][]store.Project, len(boards))
	for _, b := range boards {
		grouped[b.ID] = []store.Project{}
	}
	for _, p := range projects {
		b := Resolve(p, boards)
		if b == nil {
			continue
		}
		grouped[b.ID] = append(grouped[b.ID], p)
	}
	return grouped
}

// Direction of a board or project move.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
)

// MoveProjectInGroup swaps the project with its neighbor inside a group
// and returns the result. Boundary moves and unknown ids are no-ops.
func MoveProjectInGroup(group []store.Project, projectID string, dir Direction) []store.Project {
	idx := -1
	for i, p := range group {
		if p.ID == projectID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return group
	}
	target := idx - 1
	if dir == Right {
		target = idx + 1
	}
	if target < 0 || target >= len(group) {
		return group
	}
	out := make([]store.Project, len(group))
	copy(out, group)
	out[idx], out[target] = out[target], out[idx]
	return out
}
