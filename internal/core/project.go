package core

import (
	"fmt"
	"os"
	"path/filepath"
)

// Project represents a strand project.
type Project struct {
	Root   string
	DBPath string
}

// DiscoverProject walks up from startDir to find a .strand directory.
func DiscoverProject(startDir string) (Project, error) {
	current := startDir
	if current == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Project{}, err
		}
		current = cwd
	}
	current, err := filepath.Abs(current)
	if err != nil {
		return Project{}, err
	}

	for {
		strandDir := filepath.Join(current, ".strand")
		info, err := os.Stat(strandDir)
		if err == nil && info.IsDir() {
			dbPath := filepath.Join(strandDir, "strand.db")
			if _, err := os.Stat(dbPath); err != nil {
				return Project{}, fmt.Errorf("strand store not found. Run 'strand init' first")
			}
			return Project{Root: current, DBPath: dbPath}, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return Project{}, fmt.Errorf("not initialized. Run 'strand init' first")
		}
		current = parent
	}
}

// InitProject initializes a new strand project at dir.
func InitProject(dir string, force bool) (Project, error) {
	root := dir
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Project{}, err
		}
		root = cwd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return Project{}, err
	}

	strandDir := filepath.Join(root, ".strand")
	dbPath := filepath.Join(strandDir, "strand.db")
	if _, err := os.Stat(dbPath); err == nil && !force {
		return Project{}, fmt.Errorf("already initialized at %s", strandDir)
	}

	if err := os.MkdirAll(strandDir, 0o755); err != nil {
		return Project{}, err
	}
	EnsureStrandGitignore(strandDir)

	return Project{Root: root, DBPath: dbPath}, nil
}

// EnsureStrandGitignore keeps the SQLite file and its WAL siblings out of git.
func EnsureStrandGitignore(strandDir string) {
	path := filepath.Join(strandDir, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return
	}
	_ = os.WriteFile(path, []byte("strand.db\nstrand.db-wal\nstrand.db-shm\n"), 0o644)
}
