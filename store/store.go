// Package store persists a grammar's computed FIRST/FOLLOW tables to a
// SQLite database, keyed by a content fingerprint of the grammar, so that a
// long-lived parser process (or successive CLI invocations) doesn't redo
// the fixed-point computation every time it loads the same grammar.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/rezi"
	_ "modernc.org/sqlite"
)

// Store is a cache of computed analysis tables, backed by a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS analysis_cache (
		fingerprint TEXT NOT NULL PRIMARY KEY,
		first_data TEXT NOT NULL,
		follow_data TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Fingerprint derives a stable cache key from a grammar's token and rule
// names and its production shapes, so that two structurally identical
// grammars built independently (e.g. across process restarts) share a cache
// entry.
func Fingerprint(g *grammar.Grammar) string {
	h := sha256.New()
	for t := 0; t < g.NumTokens(); t++ {
		fmt.Fprintf(h, "T%d:%s|", t, g.TokenName(grammar.TokenIdx(t)))
	}
	for r := 0; r < g.NumRules(); r++ {
		fmt.Fprintf(h, "R%d:%s|", r, g.RuleName(grammar.RuleIdx(r)))
		for _, p := range g.Productions(grammar.RuleIdx(r)) {
			fmt.Fprintf(h, "P%s|", g.Production(p).String())
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// cachedTables is the serializable shape written to and read from the
// analysis_cache table.
type cachedTables struct {
	FirstWords  [][]uint64
	FirstEps    []bool
	FollowWords [][]uint64
}

// Load retrieves a previously-stored FIRST/FOLLOW pair for fingerprint, if
// present.
func (s *Store) Load(fingerprint string) (*grammar.FirstTable, *grammar.FollowTable, bool, error) {
	var firstEnc, followEnc string
	err := s.db.QueryRow(
		`SELECT first_data, follow_data FROM analysis_cache WHERE fingerprint = ?`,
		fingerprint,
	).Scan(&firstEnc, &followEnc)
	if err == sql.ErrNoRows {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("store: load %s: %w", fingerprint, err)
	}

	firstData, err := base64.StdEncoding.DecodeString(firstEnc)
	if err != nil {
		return nil, nil, false, fmt.Errorf("store: decode first table: %w", err)
	}
	followData, err := base64.StdEncoding.DecodeString(followEnc)
	if err != nil {
		return nil, nil, false, fmt.Errorf("store: decode follow table: %w", err)
	}

	var cached cachedTables
	n, err := rezi.DecBinary(firstData, &cached.FirstWords)
	if err != nil {
		return nil, nil, false, fmt.Errorf("store: unmarshal first words: %w", err)
	}
	if _, err := rezi.DecBinary(firstData[n:], &cached.FirstEps); err != nil {
		return nil, nil, false, fmt.Errorf("store: unmarshal first epsilon bits: %w", err)
	}
	if _, err := rezi.DecBinary(followData, &cached.FollowWords); err != nil {
		return nil, nil, false, fmt.Errorf("store: unmarshal follow words: %w", err)
	}

	first := grammar.RestoreFirstTable(cached.FirstWords, cached.FirstEps)
	follow := grammar.RestoreFollowTable(first, cached.FollowWords)
	return first, follow, true, nil
}

// Save writes a computed FIRST/FOLLOW pair under fingerprint, replacing any
// existing entry.
func (s *Store) Save(fingerprint string, first *grammar.FirstTable, follow *grammar.FollowTable) error {
	firstWords, firstEps := first.RawWords()
	followWords := follow.RawWords()

	firstData := rezi.EncBinary(firstWords)
	firstEpsData := rezi.EncBinary(firstEps)
	followData := rezi.EncBinary(followWords)

	// first_data carries both the set bits and the epsilon bits, concatenated;
	// Load above reads them back out of the same blob by decoding twice at
	// the positions rezi itself tracks via its length-prefixed encoding.
	combined := append(append([]byte{}, firstData...), firstEpsData...)

	_, err := s.db.Exec(
		`INSERT INTO analysis_cache (fingerprint, first_data, follow_data)
		 VALUES (?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET first_data = excluded.first_data, follow_data = excluded.follow_data`,
		fingerprint,
		base64.StdEncoding.EncodeToString(combined),
		base64.StdEncoding.EncodeToString(followData),
	)
	if err != nil {
		return fmt.Errorf("store: save %s: %w", fingerprint, err)
	}
	return nil
}
