package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
)

var sequenceName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresSequence maps each name onto a native sequence called <name>_seq.
// The sequences are created by migrations.
type PostgresSequence struct {
	DB *sql.DB
}

func NewPostgresSequence(db *sql.DB) *PostgresSequence {
	return &PostgresSequence{DB: db}
}

func (s *PostgresSequence) Next(ctx context.Context, name string) (int64, error) {
	if !sequenceName.MatchString(name) {
		return 0, fmt.Errorf("invalid sequence name %q", name)
	}
	var n int64
	if err := s.DB.QueryRowContext(ctx, fmt.Sprintf("SELECT nextval('%s_seq')", name)).Scan(&n); err != nil {
		return 0, fmt.Errorf("next %s: %w", name, err)
	}
	return n, nil
}

func (s *PostgresSequence) SeedAtLeast(ctx context.Context, name string, floor int64) error {
	if !sequenceName.MatchString(name) {
		return fmt.Errorf("invalid sequence name %q", name)
	}
	if floor < 1 {
		return nil
	}
	seq := name + "_seq"
	query := fmt.Sprintf("SELECT setval('%s', GREATEST($1, (SELECT last_value FROM %s)))", seq, seq)
	if _, err := s.DB.ExecContext(ctx, query, floor); err != nil {
		return fmt.Errorf("seed %s: %w", name, err)
	}
	return nil
}
