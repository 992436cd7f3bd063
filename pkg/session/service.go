package session

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/careertools/resume-allocator/pkg/conflicts"
	"github.com/careertools/resume-allocator/pkg/ledger"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// maxCommitRetries bounds how often an approval is retried after losing a
// version race. Commits are tiny, so a loss means another approval for the
// same session just landed; three attempts is plenty.
const maxCommitRetries = 3

// Service is the interactive approval flow's front end over the usage ledger:
// one session per tailored resume, one ApproveSection call per approved
// section. A session created here is committed to the interactive discipline;
// the one-shot batch allocator never touches session state.
type Service struct {
	db       *sql.DB
	registry *conflicts.Registry
	log      *zap.SugaredLogger
}

// NewService creates a session service.
func NewService(db *sql.DB, registry *conflicts.Registry, log *zap.SugaredLogger) (svc *Service) {
	svc = &Service{
		db:       db,
		registry: registry,
		log:      log,
	}
	return svc
}

// NewSession creates an empty session and returns its id.
func (s *Service) NewSession(ctx context.Context, company, role string) (id string, err error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	var sessionID ulid.ULID
	sessionID, err = ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		err = errors.Wrap(err, "failed to generate session id")
		return id, err
	}
	id = sessionID.String()

	now := time.Now()
	err = insertRecord(ctx, s.db, Record{
		ID:        id,
		Company:   company,
		Role:      role,
		Ledger:    ledger.Snapshot{UsedBaseIDs: []string{}, BlockedBaseIDs: []string{}},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return id, err
	}

	s.log.Infow("session created", "session_id", id, "company", company, "role", role)

	return id, err
}

// Get returns the persisted session record.
func (s *Service) Get(ctx context.Context, sessionID string) (rec Record, err error) {
	rec, err = getRecord(ctx, s.db, sessionID)
	return rec, err
}

// ApproveSection commits the approved section's content ids to the session's
// ledger and returns the full new blocked set. The read-modify-write cycle is
// guarded by the session row's version: if a concurrent approval lands first,
// the commit is recomputed from the fresh snapshot and retried, so two
// overlapping approvals can never both allow content that, combined, violates
// exclusivity.
func (s *Service) ApproveSection(ctx context.Context, sessionID string, contentIDs []string) (blocked []string, err error) {
	for attempt := 1; attempt <= maxCommitRetries; attempt++ {
		var rec Record
		rec, err = getRecord(ctx, s.db, sessionID)
		if err != nil {
			return blocked, err
		}

		l := ledger.FromSnapshot(s.registry, rec.Ledger)
		blocked = l.Commit(contentIDs)

		err = updateLedger(ctx, s.db, sessionID, l.Snapshot(), rec.Version)
		if err == nil {
			s.log.Infow("section approved",
				"session_id", sessionID,
				"content_ids", contentIDs,
				"blocked_count", len(blocked),
			)
			return blocked, err
		}
		if !errors.Is(err, ErrStaleWrite) {
			return blocked, err
		}

		s.log.Warnw("ledger version race, retrying commit",
			"session_id", sessionID,
			"attempt", attempt,
		)
	}

	err = errors.Wrapf(err, "approval for session %s lost %d version races", sessionID, maxCommitRetries)
	return blocked, err
}

// BlockedIDs returns the session's current blocked set, for use as a ranking
// exclusion filter.
func (s *Service) BlockedIDs(ctx context.Context, sessionID string) (blocked []string, err error) {
	var rec Record
	rec, err = getRecord(ctx, s.db, sessionID)
	if err != nil {
		return blocked, err
	}

	l := ledger.FromSnapshot(s.registry, rec.Ledger)
	blocked = l.BlockedIDs()
	return blocked, err
}

// IsAvailable reports whether the content id can still be used in the session.
func (s *Service) IsAvailable(ctx context.Context, sessionID, contentID string) (available bool, err error) {
	var rec Record
	rec, err = getRecord(ctx, s.db, sessionID)
	if err != nil {
		return available, err
	}

	l := ledger.FromSnapshot(s.registry, rec.Ledger)
	available = l.IsAvailable(contentID)
	return available, err
}
