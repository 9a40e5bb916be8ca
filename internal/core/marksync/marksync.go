// Package marksync converts mark collections to and from a portable JSON
// document and reconciles two collections with a last-writer-wins rule,
// for asynchronous multi-device sharing without a sync server.
package marksync

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/ghostmark/internal/core/mark"
)

// FormatVersion is the export document version this build writes.
const FormatVersion = "1.0"

// ErrInvalidFormat is returned when an import document is structurally
// unusable (missing version or marks). Imports fail atomically on it.
var ErrInvalidFormat = errors.New("invalid mark export format")

// Document is the portable export file. Marks carry workspace-relative
// file paths so collections survive crossing machines.
type Document struct {
	Version     string         `json:"version"`
	ExportedBy  string         `json:"exportedBy"`
	ExportedAt  time.Time      `json:"exportedAt"`
	ProjectName string         `json:"projectName"`
	Marks       []ExportedMark `json:"marks"`
}

// ExportedMark is the wire form of a single mark.
type ExportedMark struct {
	ID          string     `json:"id"`
	Key         string     `json:"key"`
	FilePath    string     `json:"filePath"`
	Line        int        `json:"line"`
	Symbol      string     `json:"symbol,omitempty"`
	Breadcrumb  string     `json:"breadcrumb,omitempty"`
	Name        string     `json:"name,omitempty"`
	Note        string     `json:"note,omitempty"`
	Priority    int        `json:"priority"`
	Completed   bool       `json:"completed"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Conflict records both versions of a mark that a merge overwrote while
// the name or line differed. Conflicts are informational, never fatal.
type Conflict struct {
	ID       string          `json:"id"`
	FilePath string          `json:"filePath"`
	Existing ConflictVersion `json:"existing"`
	Imported ConflictVersion `json:"imported"`
}

// ConflictVersion is one side of a conflict.
type ConflictVersion struct {
	Name    string    `json:"name,omitempty"`
	Line    int       `json:"line"`
	Created time.Time `json:"createdAt"`
}

// Result is the outcome of a merge.
type Result struct {
	Merged    []mark.Mark
	New       int
	Updated   int
	Skipped   int
	Conflicts []Conflict
}

// Syncer translates between the internal mark model and the export format.
// It is stateless apart from the workspace root used to re-anchor paths.
type Syncer struct {
	workspaceRoot string
}

// New creates a syncer anchored at the given workspace root.
func New(workspaceRoot string) *Syncer {
	return &Syncer{workspaceRoot: workspaceRoot}
}

// ExportOptions names the exporting identity.
type ExportOptions struct {
	ExportedBy  string
	ProjectName string
	Now         time.Time
}

// Export serializes marks into a portable document, rewriting document
// refs to workspace-relative paths.
func (s *Syncer) Export(marks []mark.Mark, opts ExportOptions) ([]byte, error) {
	if opts.ExportedBy == "" {
		opts.ExportedBy = "anonymous"
	}
	if opts.ProjectName == "" {
		opts.ProjectName = "unknown-project"
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	doc := Document{
		Version:     FormatVersion,
		ExportedBy:  opts.ExportedBy,
		ExportedAt:  opts.Now.UTC(),
		ProjectName: opts.ProjectName,
		Marks:       make([]ExportedMark, 0, len(marks)),
	}
	for _, m := range marks {
		doc.Marks = append(doc.Marks, s.toExported(m, opts.ExportedBy))
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return raw, nil
}

// Import parses an export document and merges it into existing using
// last-writer-wins on creation time per id. The local collection is not
// touched; callers apply Result.Merged themselves. Structural problems
// (bad JSON, missing version/marks) fail the whole import.
func (s *Syncer) Import(existing []mark.Mark, data []byte) (Result, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Result{}, fmt.Errorf("parse export: %w: %v", ErrInvalidFormat, err)
	}
	if doc.Version == "" || doc.Marks == nil {
		return Result{}, fmt.Errorf("missing version or marks: %w", ErrInvalidFormat)
	}

	return s.merge(existing, doc.Marks), nil
}

// merge reconciles the two sets. Existing marks keep their positions in
// the output (replaced in place when the import wins); genuinely new
// marks are appended in import order.
func (s *Syncer) merge(existing []mark.Mark, imported []ExportedMark) Result {
	res := Result{Merged: make([]mark.Mark, len(existing))}
	copy(res.Merged, existing)

	index := make(map[string]int, len(existing))
	for i, m := range existing {
		index[m.ID] = i
	}

	for _, im := range imported {
		incoming := s.fromExported(im)

		i, ok := index[im.ID]
		if !ok {
			index[im.ID] = len(res.Merged)
			res.Merged = append(res.Merged, incoming)
			res.New++
			continue
		}

		local := res.Merged[i]
		if !incoming.Created.After(local.Created) {
			res.Skipped++
			continue
		}

		res.Merged[i] = incoming
		res.Updated++
		if local.Name != incoming.Name || local.Line != incoming.Line {
			res.Conflicts = append(res.Conflicts, Conflict{
				ID:       im.ID,
				FilePath: im.FilePath,
				Existing: ConflictVersion{Name: local.Name, Line: local.Line, Created: local.Created},
				Imported: ConflictVersion{Name: incoming.Name, Line: incoming.Line, Created: incoming.Created},
			})
		}
	}

	return res
}

func (s *Syncer) toExported(m mark.Mark, exportedBy string) ExportedMark {
	return ExportedMark{
		ID:          m.ID,
		Key:         m.Key,
		FilePath:    mark.RelPath(s.workspaceRoot, m.DocumentRef),
		Line:        m.Line,
		Symbol:      m.Symbol,
		Breadcrumb:  m.Breadcrumb,
		Name:        m.Name,
		Note:        m.Note,
		Priority:    m.Priority,
		Completed:   m.Completed,
		CreatedBy:   exportedBy,
		CreatedAt:   m.Created,
		CompletedAt: m.CompletedAt,
	}
}

// fromExported re-anchors a wire mark into the current workspace and
// normalizes optional fields the same way creation does.
func (s *Syncer) fromExported(im ExportedMark) mark.Mark {
	name := im.Name
	if name == "" {
		name = mark.DefaultName
	}

	return mark.Mark{
		ID:          im.ID,
		Key:         im.Key,
		DocumentRef: mark.AbsRef(s.workspaceRoot, im.FilePath),
		Line:        im.Line,
		Symbol:      im.Symbol,
		Breadcrumb:  im.Breadcrumb,
		Name:        name,
		Note:        im.Note,
		Priority:    mark.ClampPriority(im.Priority),
		Created:     im.CreatedAt,
		Completed:   im.Completed,
		CompletedAt: im.CompletedAt,
	}
}
