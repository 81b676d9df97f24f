package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/signpost-app/signpost/internal/apperr"
	"github.com/signpost-app/signpost/internal/logger"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) (*Repository, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithDatabaseInstance("file://internal/repo/migrations", "postgres", driver)
	if err != nil {
		return nil, err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return nil, err
	}
	logger.Logger.Info("migrations up to date")

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r != nil {
		return r.db.Close()
	}
	return nil
}

// Document is one uploaded PDF plus its two stored position descriptors.
// Read-only after creation except for Name.
type Document struct {
	ID      int64
	OwnerID string
	Name    string
	// FilePath is the object name in storage.
	FilePath          string
	SignaturePosition sql.NullString
	DatePosition      sql.NullString
	CreatedAt         time.Time
}

// Settings is the per-owner delivery configuration.
type Settings struct {
	OwnerID         string
	SenderEmail     string
	ReceiverConfig  string
	EmailProvider   string
	EmailCredential string
}

func (r *Repository) InsertDocument(ctx context.Context, d *Document) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO documents (owner_id, name, file_path, signature_position, date_position)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		d.OwnerID, d.Name, d.FilePath, d.SignaturePosition, d.DatePosition,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repository) GetDocument(ctx context.Context, id int64) (*Document, error) {
	var d Document
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, file_path, signature_position, date_position, created_at
		 FROM documents WHERE id = $1`, id,
	).Scan(&d.ID, &d.OwnerID, &d.Name, &d.FilePath, &d.SignaturePosition, &d.DatePosition, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Resource: "document"}
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) ListDocuments(ctx context.Context, ownerID string) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, name, file_path, signature_position, date_position, created_at
		 FROM documents WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Name, &d.FilePath, &d.SignaturePosition, &d.DatePosition, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *Repository) RenameDocument(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE documents SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &apperr.NotFoundError{Resource: "document"}
	}
	return nil
}

func (r *Repository) DeleteDocument(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &apperr.NotFoundError{Resource: "document"}
	}
	return nil
}

func (r *Repository) GetSettings(ctx context.Context, ownerID string) (*Settings, error) {
	var s Settings
	err := r.db.QueryRowContext(ctx,
		`SELECT owner_id, sender_email, receiver_config, email_provider, email_credential
		 FROM settings WHERE owner_id = $1`, ownerID,
	).Scan(&s.OwnerID, &s.SenderEmail, &s.ReceiverConfig, &s.EmailProvider, &s.EmailCredential)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Resource: "settings"}
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) UpsertSettings(ctx context.Context, s *Settings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (owner_id, sender_email, receiver_config, email_provider, email_credential)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (owner_id) DO UPDATE SET
			sender_email = EXCLUDED.sender_email,
			receiver_config = EXCLUDED.receiver_config,
			email_provider = EXCLUDED.email_provider,
			email_credential = EXCLUDED.email_credential`,
		s.OwnerID, s.SenderEmail, s.ReceiverConfig, s.EmailProvider, s.EmailCredential)
	return err
}
