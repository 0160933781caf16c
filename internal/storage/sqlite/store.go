package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"estates/internal/catalog"
	"estates/internal/models"
)

// Store wraps a SQLite catalog snapshot.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open initializes a SQLite snapshot store and runs the required migrations.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS projects (
            id TEXT PRIMARY KEY,
            position INTEGER NOT NULL,
            title TEXT NOT NULL DEFAULT '',
            location TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT '',
            price REAL NOT NULL DEFAULT 0,
            image TEXT NOT NULL DEFAULT '',
            featured INTEGER NOT NULL DEFAULT 0,
            owner_id TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS project_views (
            project_id TEXT NOT NULL,
            position INTEGER NOT NULL,
            uri TEXT NOT NULL,
            PRIMARY KEY(project_id, position),
            FOREIGN KEY(project_id) REFERENCES projects(id) ON DELETE CASCADE
        );`,
		`CREATE INDEX IF NOT EXISTS idx_projects_position ON projects(position);`,
		`CREATE INDEX IF NOT EXISTS idx_projects_category_status ON projects(category, status);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// ReplaceProjects swaps the stored snapshot for the given projects in a
// single transaction, keeping their order.
func (s *Store) ReplaceProjects(ctx context.Context, projects []models.Project) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM project_views`); err != nil {
		return fmt.Errorf("clear views: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return fmt.Errorf("clear projects: %w", err)
	}

	projectStmt, err := tx.PrepareContext(ctx, `INSERT INTO projects(id, position, title, location, description, category, status, price, image, featured, owner_id)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare project insert: %w", err)
	}
	defer projectStmt.Close()

	viewStmt, err := tx.PrepareContext(ctx, `INSERT INTO project_views(project_id, position, uri) VALUES(?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare view insert: %w", err)
	}
	defer viewStmt.Close()

	for i, p := range projects {
		if _, err = projectStmt.ExecContext(ctx, string(p.ID), i, p.Title, p.Location, p.Description, p.Category, p.Status, p.Price, p.Image, p.Featured, p.OwnerID); err != nil {
			return fmt.Errorf("insert project %s: %w", p.ID, err)
		}
		for j, uri := range p.Views {
			if _, err = viewStmt.ExecContext(ctx, string(p.ID), j, uri); err != nil {
				return fmt.Errorf("insert view for %s: %w", p.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	s.logger.Info("catalog snapshot written", slog.Int("projects", len(projects)))
	return nil
}

// ListProjects retrieves all projects in snapshot order.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, location, description, category, status, price, image, featured, owner_id
        FROM projects ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	index := map[models.ProjectID]int{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		index[p.ID] = len(projects)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	viewRows, err := s.db.QueryContext(ctx, `SELECT project_id, uri FROM project_views ORDER BY project_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list views: %w", err)
	}
	defer viewRows.Close()

	for viewRows.Next() {
		var id, uri string
		if err := viewRows.Scan(&id, &uri); err != nil {
			return nil, fmt.Errorf("scan view: %w", err)
		}
		if i, ok := index[models.ProjectID(id)]; ok {
			projects[i].Views = append(projects[i].Views, uri)
		}
	}
	return projects, viewRows.Err()
}

// GetProject fetches a single project by id.
func (s *Store) GetProject(ctx context.Context, id models.ProjectID) (models.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, location, description, category, status, price, image, featured, owner_id
        FROM projects WHERE id = ?`, string(id))
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}
	if err != nil {
		return models.Project{}, err
	}

	views, err := s.db.QueryContext(ctx, `SELECT uri FROM project_views WHERE project_id = ? ORDER BY position`, string(id))
	if err != nil {
		return models.Project{}, fmt.Errorf("list views: %w", err)
	}
	defer views.Close()
	for views.Next() {
		var uri string
		if err := views.Scan(&uri); err != nil {
			return models.Project{}, fmt.Errorf("scan view: %w", err)
		}
		p.Views = append(p.Views, uri)
	}
	return p, views.Err()
}

// LoadCatalog builds an immutable catalog from the stored snapshot.
func (s *Store) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.New(projects)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (models.Project, error) {
	var (
		p  models.Project
		id string
	)
	err := row.Scan(&id, &p.Title, &p.Location, &p.Description, &p.Category, &p.Status, &p.Price, &p.Image, &p.Featured, &p.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, err
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("scan project: %w", err)
	}
	p.ID = models.ProjectID(id)
	return p, nil
}
