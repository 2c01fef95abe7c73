package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/service/database"
	"github.com/kapu/tia-transfer-bot-go/pkg/errors"
	"go.uber.org/zap"
)

const schemaDDL = `
	CREATE TABLE IF NOT EXISTS transfer_audit (
		id          BIGSERIAL PRIMARY KEY,
		session_key TEXT NOT NULL,
		raw_text    TEXT NOT NULL,
		intent      TEXT NOT NULL,
		state       TEXT NOT NULL,
		confidence  DOUBLE PRECISION NOT NULL,
		error       TEXT,
		transfer    JSONB,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_transfer_audit_session ON transfer_audit (session_key, created_at DESC);
`

// Entry is one processed chat turn.
type Entry struct {
	ID         int64
	SessionKey string
	RawText    string
	Intent     domain.Intent
	State      domain.State
	Confidence float64
	Error      string
	Transfer   *domain.TransferIntent
	CreatedAt  time.Time
}

// NewEntry builds an audit entry from the outcome of a turn.
func NewEntry(sessionKey string, reply *domain.Reply) Entry {
	entry := Entry{
		SessionKey: sessionKey,
		State:      reply.State,
		Transfer:   reply.TransactionData,
	}
	if r := reply.ParseResult; r != nil {
		if !reply.SensitiveWarning {
			entry.RawText = r.RawText
		}
		entry.Intent = r.Intent
		entry.Confidence = r.Confidence
		entry.Error = r.ErrorMessage()
	}
	return entry
}

type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewRepository(postgres *database.PostgresService, logger *zap.Logger) *Repository {
	return &Repository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to create transfer_audit table: %w", err)
	}
	return nil
}

func (r *Repository) Record(ctx context.Context, entry Entry) error {
	query := `
		INSERT INTO transfer_audit (session_key, raw_text, intent, state, confidence, error, transfer)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var transferJSON []byte
	if entry.Transfer != nil {
		data, err := json.Marshal(entry.Transfer)
		if err != nil {
			return fmt.Errorf("failed to marshal transfer intent: %w", err)
		}
		transferJSON = data
	}

	errText := sql.NullString{String: entry.Error, Valid: entry.Error != ""}

	if _, err := r.db.ExecContext(ctx, query,
		entry.SessionKey,
		entry.RawText,
		string(entry.Intent),
		string(entry.State),
		entry.Confidence,
		errText,
		transferJSON,
	); err != nil {
		return errors.NewServiceError("failed to insert audit entry", "audit", "record", err)
	}

	return nil
}

// RecentBySession returns the latest entries of a session, newest first.
func (r *Repository) RecentBySession(ctx context.Context, sessionKey string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, session_key, raw_text, intent, state, confidence, error, transfer, created_at
		FROM transfer_audit
		WHERE session_key = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, sessionKey, limit)
	if err != nil {
		return nil, errors.NewServiceError("failed to query audit entries", "audit", "recent", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			entry        Entry
			intent       string
			state        string
			errText      sql.NullString
			transferJSON []byte
		)

		if err := rows.Scan(
			&entry.ID, &entry.SessionKey, &entry.RawText, &intent, &state,
			&entry.Confidence, &errText, &transferJSON, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}

		entry.Intent = domain.Intent(intent)
		entry.State = domain.State(state)
		entry.Error = errText.String

		if len(transferJSON) > 0 {
			var transfer domain.TransferIntent
			if err := json.Unmarshal(transferJSON, &transfer); err != nil {
				r.logger.Warn("Failed to decode audit transfer", zap.Int64("id", entry.ID), zap.Error(err))
			} else {
				entry.Transfer = &transfer
			}
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}
	return entries, nil
}
