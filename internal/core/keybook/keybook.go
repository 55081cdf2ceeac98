// Package keybook archives rotor keys so operators can issue a new key per
// day (or per net) and still decode older traffic.
//
// Entries are immutable once stored. Each carries a UUIDv7 id and a unique
// human label such as "2026-10-18".
package keybook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/solatis/enigma/internal/cipher"
	"github.com/solatis/enigma/internal/types"
)

// Queries is the named-query surface the keybook needs. *db.Queries satisfies it.
type Queries interface {
	ExecContext(ctx context.Context, name string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, name string, dest any, args ...any) error
	SelectContext(ctx context.Context, name string, dest any, args ...any) error
}

// Entry is a stored rotor key.
type Entry struct {
	ID        types.KeyID
	Label     string
	CreatedAt time.Time
	Key       *cipher.Key
}

// Keybook stores and retrieves rotor keys. Safe for concurrent use when the
// underlying Queries is.
type Keybook struct {
	queries  Queries
	alphabet *cipher.Alphabet
	now      func() time.Time
}

// New returns a keybook over q. Stored wirings are validated against a.
func New(q Queries, a *cipher.Alphabet) *Keybook {
	return &Keybook{
		queries:  q,
		alphabet: a,
		now:      time.Now,
	}
}

type row struct {
	KeyID     string `db:"key_id"`
	Label     string `db:"label"`
	Rotor1    string `db:"rotor1"`
	Rotor2    string `db:"rotor2"`
	Rotor3    string `db:"rotor3"`
	CreatedAt string `db:"created_at"`
}

// Store archives key under label and returns its new id.
func (kb *Keybook) Store(ctx context.Context, label string, key *cipher.Key) (types.KeyID, error) {
	if err := validateLabel(label); err != nil {
		return "", err
	}
	if key == nil {
		return "", fmt.Errorf("%w: nil key", types.ErrInvalidWiring)
	}

	var taken int
	if err := kb.queries.GetContext(ctx, "count-rotor-keys-by-label", &taken, label); err != nil {
		return "", fmt.Errorf("failed to check label: %w", err)
	}
	if taken > 0 {
		return "", fmt.Errorf("%w: %q", types.ErrDuplicateLabel, label)
	}

	id := types.NewKeyID()
	r1, r2, r3 := key.Strings()
	createdAt := kb.now().UTC().Format(time.RFC3339)

	_, err := kb.queries.ExecContext(ctx, "insert-rotor-key", id.String(), label, r1, r2, r3, createdAt)
	if err != nil {
		// A concurrent writer may take the label between the check and the insert.
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: %q", types.ErrDuplicateLabel, label)
		}
		return "", fmt.Errorf("failed to store key: %w", err)
	}
	return id, nil
}

// Get returns the entry with the given id.
func (kb *Keybook) Get(ctx context.Context, id types.KeyID) (*Entry, error) {
	return kb.getOne(ctx, "get-rotor-key", id.String())
}

// GetByLabel returns the entry with the given label.
func (kb *Keybook) GetByLabel(ctx context.Context, label string) (*Entry, error) {
	return kb.getOne(ctx, "get-rotor-key-by-label", label)
}

// Lookup resolves ref as an id first, then as a label.
func (kb *Keybook) Lookup(ctx context.Context, ref string) (*Entry, error) {
	ref = strings.TrimSpace(ref)
	if id, err := types.ParseKeyID(ref); err == nil {
		e, err := kb.Get(ctx, id)
		if !errors.Is(err, types.ErrKeyNotFound) {
			return e, err
		}
	}
	return kb.GetByLabel(ctx, ref)
}

// List returns all entries, oldest first.
func (kb *Keybook) List(ctx context.Context) ([]*Entry, error) {
	var rows []row
	if err := kb.queries.SelectContext(ctx, "list-rotor-keys", &rows); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	entries := make([]*Entry, 0, len(rows))
	for _, r := range rows {
		e, err := kb.decode(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (kb *Keybook) getOne(ctx context.Context, query, arg string) (*Entry, error) {
	var r row
	if err := kb.queries.GetContext(ctx, query, &r, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", types.ErrKeyNotFound, arg)
		}
		return nil, fmt.Errorf("failed to load key %s: %w", arg, err)
	}
	return kb.decode(r)
}

// decode re-validates stored wirings; a row edited by hand must not reach a Machine.
func (kb *Keybook) decode(r row) (*Entry, error) {
	key, err := cipher.ParseKey(kb.alphabet, r.Rotor1, r.Rotor2, r.Rotor3)
	if err != nil {
		return nil, fmt.Errorf("key %s: %w", r.KeyID, err)
	}
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("key %s: bad created_at %q: %w", r.KeyID, r.CreatedAt, err)
	}
	return &Entry{
		ID:        types.KeyID(r.KeyID),
		Label:     r.Label,
		CreatedAt: createdAt,
		Key:       key,
	}, nil
}

func validateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("%w: label cannot be empty", types.ErrInvalidLabel)
	}
	if label != strings.TrimSpace(label) {
		return fmt.Errorf("%w: leading or trailing whitespace in %q", types.ErrInvalidLabel, label)
	}
	if n := utf8.RuneCountInString(label); n > types.MaxLabelLength {
		return fmt.Errorf("%w: %d characters exceeds %d", types.ErrInvalidLabel, n, types.MaxLabelLength)
	}
	return nil
}

// isUniqueViolation reports a unique constraint failure from either driver.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
