package keybook

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/solatis/enigma/internal/cipher"
	"github.com/solatis/enigma/internal/core/db"
	"github.com/solatis/enigma/internal/keyfile"
	"github.com/solatis/enigma/internal/types"
)

func newTestKeybook(t *testing.T) (*Keybook, *db.Queries) {
	t.Helper()
	conn, err := db.Open("sqlite://" + filepath.Join(t.TempDir(), "keybook.db"))
	if err != nil {
		t.Fatalf("db.Open() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.MigrateUp(conn); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	q, err := db.LoadQueries(conn)
	if err != nil {
		t.Fatalf("LoadQueries() error = %v", err)
	}
	return New(q, cipher.Default), q
}

func testKey(t *testing.T, seed uint64) *cipher.Key {
	t.Helper()
	key, err := keyfile.GenerateKey(cipher.Default, keyfile.NewSeededRand(seed))
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	return key
}

func sameKey(a, b *cipher.Key) bool {
	a1, a2, a3 := a.Strings()
	b1, b2, b3 := b.Strings()
	return a1 == b1 && a2 == b2 && a3 == b3
}

func TestStoreAndGet(t *testing.T) {
	kb, _ := newTestKeybook(t)
	ctx := context.Background()
	key := testKey(t, 1)

	fixed := time.Date(2026, 10, 18, 6, 0, 0, 0, time.UTC)
	kb.now = func() time.Time { return fixed }

	id, err := kb.Store(ctx, "2026-10-18", key)
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if _, err := types.ParseKeyID(id.String()); err != nil {
		t.Fatalf("Store() returned invalid id %q: %v", id, err)
	}

	byID, err := kb.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if byID.Label != "2026-10-18" || !byID.CreatedAt.Equal(fixed) {
		t.Errorf("Get() = {%s %v}, want {2026-10-18 %v}", byID.Label, byID.CreatedAt, fixed)
	}
	if !sameKey(byID.Key, key) {
		t.Error("Get() returned different wirings")
	}

	byLabel, err := kb.GetByLabel(ctx, "2026-10-18")
	if err != nil {
		t.Fatalf("GetByLabel() error = %v", err)
	}
	if byLabel.ID != id {
		t.Errorf("GetByLabel().ID = %s, want %s", byLabel.ID, id)
	}
}

func TestStore_DuplicateLabel(t *testing.T) {
	kb, _ := newTestKeybook(t)
	ctx := context.Background()

	if _, err := kb.Store(ctx, "net-a", testKey(t, 1)); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	_, err := kb.Store(ctx, "net-a", testKey(t, 2))
	if !errors.Is(err, types.ErrDuplicateLabel) {
		t.Fatalf("Store(duplicate) error = %v, want ErrDuplicateLabel", err)
	}
}

func TestStore_InvalidInput(t *testing.T) {
	kb, _ := newTestKeybook(t)
	ctx := context.Background()
	key := testKey(t, 1)

	tests := []struct {
		name  string
		label string
		key   *cipher.Key
		want  error
	}{
		{"empty label", "", key, types.ErrInvalidLabel},
		{"blank label", "   ", key, types.ErrInvalidLabel},
		{"padded label", " monday", key, types.ErrInvalidLabel},
		{"long label", strings.Repeat("x", types.MaxLabelLength+1), key, types.ErrInvalidLabel},
		{"nil key", "ok", nil, types.ErrInvalidWiring},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := kb.Store(ctx, tt.label, tt.key)
			if !errors.Is(err, tt.want) {
				t.Errorf("Store() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := kb.Store(ctx, strings.Repeat("x", types.MaxLabelLength), key); err != nil {
		t.Errorf("Store(max length label) error = %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	kb, _ := newTestKeybook(t)
	ctx := context.Background()

	if _, err := kb.Get(ctx, types.NewKeyID()); !errors.Is(err, types.ErrKeyNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrKeyNotFound", err)
	}
	if _, err := kb.GetByLabel(ctx, "nope"); !errors.Is(err, types.ErrKeyNotFound) {
		t.Errorf("GetByLabel(unknown) error = %v, want ErrKeyNotFound", err)
	}
	if _, err := kb.Lookup(ctx, "nope"); !errors.Is(err, types.ErrKeyNotFound) {
		t.Errorf("Lookup(unknown) error = %v, want ErrKeyNotFound", err)
	}
}

func TestLookup(t *testing.T) {
	kb, _ := newTestKeybook(t)
	ctx := context.Background()

	id, err := kb.Store(ctx, "tuesday", testKey(t, 1))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	// A label that happens to be a UUID still resolves when no id matches.
	uuidLabel := types.NewKeyID().String()
	labelled, err := kb.Store(ctx, uuidLabel, testKey(t, 2))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	tests := []struct {
		ref  string
		want types.KeyID
	}{
		{id.String(), id},
		{strings.ToUpper(id.String()), id},
		{"tuesday", id},
		{" tuesday ", id},
		{uuidLabel, labelled},
	}
	for _, tt := range tests {
		e, err := kb.Lookup(ctx, tt.ref)
		if err != nil {
			t.Errorf("Lookup(%q) error = %v", tt.ref, err)
			continue
		}
		if e.ID != tt.want {
			t.Errorf("Lookup(%q).ID = %s, want %s", tt.ref, e.ID, tt.want)
		}
	}
}

func TestList(t *testing.T) {
	kb, _ := newTestKeybook(t)
	ctx := context.Background()

	empty, err := kb.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("List() on empty keybook = %d entries", len(empty))
	}

	var ids []types.KeyID
	for i, label := range []string{"mon", "tue", "wed"} {
		id, err := kb.Store(ctx, label, testKey(t, uint64(i+1)))
		if err != nil {
			t.Fatalf("Store(%s) error = %v", label, err)
		}
		ids = append(ids, id)
		time.Sleep(2 * time.Millisecond)
	}

	entries, err := kb.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != len(ids) {
		t.Fatalf("List() = %d entries, want %d", len(entries), len(ids))
	}
	for i, e := range entries {
		if e.ID != ids[i] {
			t.Errorf("List()[%d].ID = %s, want %s", i, e.ID, ids[i])
		}
	}
}

func TestLoad_RejectsTamperedWiring(t *testing.T) {
	kb, q := newTestKeybook(t)
	ctx := context.Background()

	r1, r2, _ := testKey(t, 1).Strings()
	bad := strings.Repeat("a", cipher.Default.Len())
	_, err := q.ExecContext(ctx, "insert-rotor-key",
		types.NewKeyID().String(), "tampered", r1, r2, bad, "2026-10-18T00:00:00Z")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := kb.GetByLabel(ctx, "tampered"); !errors.Is(err, types.ErrInvalidWiring) {
		t.Errorf("GetByLabel(tampered) error = %v, want ErrInvalidWiring", err)
	}
	if _, err := kb.List(ctx); !errors.Is(err, types.ErrInvalidWiring) {
		t.Errorf("List() with tampered row error = %v, want ErrInvalidWiring", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	_, q := newTestKeybook(t)
	ctx := context.Background()

	insert := func(id string) error {
		_, err := q.ExecContext(ctx, "insert-rotor-key", id, "same", "x", "y", "z", "2026-10-18T00:00:00Z")
		return err
	}
	if err := insert(types.NewKeyID().String()); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := insert(types.NewKeyID().String())
	if err == nil {
		t.Fatal("second insert with same label succeeded")
	}
	if !isUniqueViolation(err) {
		t.Errorf("isUniqueViolation(%v) = false", err)
	}
	if isUniqueViolation(errors.New("disk full")) {
		t.Error("isUniqueViolation(other error) = true")
	}
}
