package mark

import (
	"path/filepath"
	"strings"
)

const fileScheme = "file://"

// RelPath converts a document ref to a workspace-relative slash path.
// Refs outside the workspace (or unparseable ones) come back unchanged,
// minus any file scheme.
func RelPath(workspaceRoot, documentRef string) string {
	path := strings.TrimPrefix(documentRef, fileScheme)
	if workspaceRoot == "" {
		return filepath.ToSlash(path)
	}

	rel, err := filepath.Rel(workspaceRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// AbsRef re-anchors a workspace-relative path into the current workspace,
// producing a canonical document ref.
func AbsRef(workspaceRoot, relPath string) string {
	if workspaceRoot == "" || filepath.IsAbs(relPath) {
		return fileScheme + filepath.ToSlash(relPath)
	}
	return fileScheme + filepath.ToSlash(filepath.Join(workspaceRoot, relPath))
}
