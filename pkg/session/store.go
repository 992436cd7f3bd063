package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/careertools/resume-allocator/pkg/ledger"
	"github.com/pkg/errors"
)

// Sentinel errors for session storage.
var (
	// ErrNotFound is returned when no session exists with the given id.
	ErrNotFound = errors.New("session not found")
	// ErrStaleWrite is returned when a ledger update was computed from a
	// snapshot older than the latest persisted state. The caller re-reads and
	// retries.
	ErrStaleWrite = errors.New("stale ledger write")
)

// Record is a persisted session: identity plus the ledger snapshot and the
// version counter guarding read-modify-write cycles.
type Record struct {
	ID        string          `json:"id"`
	Company   string          `json:"company"`
	Role      string          `json:"role"`
	Ledger    ledger.Snapshot `json:"ledger"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// insertRecord stores a new session row with an empty ledger.
func insertRecord(ctx context.Context, db *sql.DB, rec Record) (err error) {
	var usedJSON, blockedJSON []byte
	usedJSON, blockedJSON, err = marshalLedger(rec.Ledger)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sessions (id, company, role, used_json, blocked_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = db.ExecContext(ctx, query,
		rec.ID, rec.Company, rec.Role, string(usedJSON), string(blockedJSON),
		rec.Version, rec.CreatedAt.Unix(), rec.UpdatedAt.Unix(),
	)
	if err != nil {
		err = errors.Wrapf(err, "failed to insert session %s", rec.ID)
		return err
	}

	return err
}

// getRecord loads a session row by id.
func getRecord(ctx context.Context, db *sql.DB, id string) (rec Record, err error) {
	query := `
		SELECT id, company, role, used_json, blocked_json, version, created_at, updated_at
		FROM sessions
		WHERE id = ?
	`

	var usedJSON, blockedJSON string
	var createdAt, updatedAt int64
	err = db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Company, &rec.Role, &usedJSON, &blockedJSON,
		&rec.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
			return rec, err
		}
		err = errors.Wrapf(err, "failed to load session %s", id)
		return rec, err
	}

	rec.CreatedAt = time.Unix(createdAt, 0)
	rec.UpdatedAt = time.Unix(updatedAt, 0)

	err = json.Unmarshal([]byte(usedJSON), &rec.Ledger.UsedBaseIDs)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse used ids for session %s", id)
		return rec, err
	}
	err = json.Unmarshal([]byte(blockedJSON), &rec.Ledger.BlockedBaseIDs)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse blocked ids for session %s", id)
		return rec, err
	}

	return rec, err
}

// updateLedger persists a new ledger snapshot for the session, but only if
// the row is still at the version the snapshot was computed from. A zero
// row count means another commit won the race; the caller gets ErrStaleWrite
// and must re-read before retrying.
func updateLedger(ctx context.Context, db *sql.DB, id string, snap ledger.Snapshot, expectedVersion int64) (err error) {
	var usedJSON, blockedJSON []byte
	usedJSON, blockedJSON, err = marshalLedger(snap)
	if err != nil {
		return err
	}

	query := `
		UPDATE sessions
		SET used_json = ?, blocked_json = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`
	var result sql.Result
	result, err = db.ExecContext(ctx, query,
		string(usedJSON), string(blockedJSON), time.Now().Unix(), id, expectedVersion,
	)
	if err != nil {
		err = errors.Wrapf(err, "failed to update session %s", id)
		return err
	}

	var affected int64
	affected, err = result.RowsAffected()
	if err != nil {
		err = errors.Wrapf(err, "failed to read rows affected for session %s", id)
		return err
	}

	if affected == 0 {
		err = ErrStaleWrite
		return err
	}

	return err
}

func marshalLedger(snap ledger.Snapshot) (usedJSON, blockedJSON []byte, err error) {
	used := snap.UsedBaseIDs
	if used == nil {
		used = []string{}
	}
	blocked := snap.BlockedBaseIDs
	if blocked == nil {
		blocked = []string{}
	}

	usedJSON, err = json.Marshal(used)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal used ids")
		return usedJSON, blockedJSON, err
	}
	blockedJSON, err = json.Marshal(blocked)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal blocked ids")
		return usedJSON, blockedJSON, err
	}

	return usedJSON, blockedJSON, err
}
