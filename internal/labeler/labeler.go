// Package labeler turns remembered project file paths into short display
// labels. Paths whose file names collide are told apart by the smallest run of
// parent directories that differs between them.
package labeler

import (
	"path/filepath"
	"strings"

	otperrors "github.com/dbmrq/otp/internal/errors"
)

// Kind tags an item for presentation.
type Kind int

const (
	// KindProject is a remembered project that is not currently open.
	KindProject Kind = iota
	// KindOpen is a remembered project that is open in some editor.
	KindOpen
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	default:
		return "project"
	}
}

// EmptyLabel is the label of the placeholder item shown for an empty history.
const EmptyLabel = "No projects in history."

// Item is one row of the chooser.
type Item struct {
	// Label is the disambiguated display name.
	Label string `json:"label"`
	// Path is the descriptor file path. Empty for the placeholder item.
	Path string `json:"path"`
	// Kind says whether the project is currently open.
	Kind Kind `json:"kind"`
	// Empty marks the placeholder item; selecting it does nothing.
	Empty bool `json:"empty,omitempty"`
}

// EmptyItem returns the placeholder item for an empty history.
func EmptyItem() Item {
	return Item{Label: EmptyLabel, Empty: true}
}

// Labeler computes display labels for descriptor paths.
type Labeler struct {
	// Suffix is stripped from file names to get the stem.
	Suffix string
	// Separator joins the stem and the disambiguating directories.
	Separator string
}

// New returns a Labeler for descriptor files ending in suffix. Labels use the
// platform path separator with a space on either side.
func New(suffix string) *Labeler {
	return &Labeler{
		Suffix:    suffix,
		Separator: " " + string(filepath.Separator) + " ",
	}
}

type entry struct {
	path       string
	stem       string
	components []string
}

// Label returns one item per path, in input order. Callers wanting
// most-recent-first order reverse the history before calling. An empty input
// yields exactly the placeholder item. Paths must be unique.
func (l *Labeler) Label(paths []string, open map[string]bool) ([]Item, error) {
	if len(paths) == 0 {
		return []Item{EmptyItem()}, nil
	}

	seen := make(map[string]bool, len(paths))
	entries := make([]entry, len(paths))
	groups := make(map[string][]int)
	for i, p := range paths {
		if seen[p] {
			return nil, otperrors.DuplicatePath(p)
		}
		seen[p] = true

		e := l.split(p)
		entries[i] = e
		groups[e.stem] = append(groups[e.stem], i)
	}

	items := make([]Item, len(entries))
	for i, e := range entries {
		label := e.stem
		if group := groups[e.stem]; len(group) > 1 {
			label = l.disambiguate(e, i, group, entries)
		}

		kind := KindProject
		if open[e.path] {
			kind = KindOpen
		}
		items[i] = Item{Label: label, Path: e.path, Kind: kind}
	}
	return items, nil
}

// Stem returns the file name of path without the descriptor suffix.
func (l *Labeler) Stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), l.Suffix)
}

// split breaks path into its stem and its directories, nearest first.
func (l *Labeler) split(path string) entry {
	dir := filepath.Dir(filepath.Clean(path))

	var components []string
	for {
		base := filepath.Base(dir)
		if base == dir || base == "." || base == string(filepath.Separator) {
			break
		}
		components = append(components, base)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return entry{
		path:       path,
		stem:       l.Stem(path),
		components: components,
	}
}

// disambiguate walks e's directories alongside those of its stem siblings,
// keeping directories until every sibling has differed at some position.
// In a two-member group that is the first position where they disagree.
func (l *Labeler) disambiguate(e entry, self int, group []int, entries []entry) string {
	pending := make([]int, 0, len(group)-1)
	for _, j := range group {
		if j != self {
			pending = append(pending, j)
		}
	}

	var reduced []string
	for pos, component := range e.components {
		if len(pending) == 0 {
			break
		}
		reduced = append(reduced, component)

		same := pending[:0]
		for _, j := range pending {
			other := entries[j].components
			if pos < len(other) && other[pos] == component {
				same = append(same, j)
			}
		}
		pending = same
	}

	if len(reduced) > 0 && reduced[0] == e.stem {
		reduced = reduced[1:]
	}

	return strings.Join(append([]string{e.stem}, reduced...), l.Separator)
}
