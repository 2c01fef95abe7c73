package audit

import (
	"context"
	stderrors "errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/service/database"
	"github.com/kapu/tia-transfer-bot-go/pkg/errors"
	"go.uber.org/zap"
)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(database.NewPostgresServiceWithDB(db, zap.NewNop()), zap.NewNop()), mock
}

func TestEnsureSchema(t *testing.T) {
	repo, mock := newTestRepository(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS transfer_audit")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordReadyTurn(t *testing.T) {
	repo, mock := newTestRepository(t)

	result := domain.NewParseResult("Envía 5 TIA a celestia1xyz")
	result.Intent = domain.IntentSend
	result.Confidence = 0.95
	reply := domain.NewReply()
	reply.State = domain.StateReady
	reply.ParseResult = result
	reply.TransactionData = &domain.TransferIntent{ToAddress: "celestia1xyz", Amount: 5, Unit: "TIA", Chain: domain.ChainCelestia}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transfer_audit")).
		WithArgs("room-1", "Envía 5 TIA a celestia1xyz", "send", "ready", 0.95, sqlmock.AnyArg(),
			[]byte(`{"toAddress":"celestia1xyz","amount":5,"unit":"TIA","chain":"celestia"}`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Record(context.Background(), NewEntry("room-1", reply)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecentBySession(t *testing.T) {
	repo, mock := newTestRepository(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "session_key", "raw_text", "intent", "state", "confidence", "error", "transfer", "created_at"}).
		AddRow(2, "room-1", "Envía 5 TIA", "send", "needs_clarification", 0.6, nil, nil, now).
		AddRow(1, "room-1", "manda 1 tia a celestia1abc", "send", "ready", 0.95, nil,
			[]byte(`{"toAddress":"celestia1abc","amount":1,"unit":"tia","chain":"celestia"}`), now.Add(-time.Minute))

	mock.ExpectQuery(regexp.QuoteMeta("FROM transfer_audit")).
		WithArgs("room-1", 10).
		WillReturnRows(rows)

	entries, err := repo.RecentBySession(context.Background(), "room-1", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].State != domain.StateNeedsClarification || entries[0].Transfer != nil {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Transfer == nil || entries[1].Transfer.Amount != 1 {
		t.Fatalf("expected decoded transfer, got %+v", entries[1].Transfer)
	}
}

func TestRecordWrapsDatabaseFailure(t *testing.T) {
	repo, mock := newTestRepository(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transfer_audit")).
		WillReturnError(stderrors.New("connection reset"))

	reply := domain.NewReply()
	reply.State = domain.StateNotSendIntent

	err := repo.Record(context.Background(), NewEntry("room-1", reply))
	var svcErr *errors.ServiceError
	if !stderrors.As(err, &svcErr) {
		t.Fatalf("expected service error, got %v", err)
	}
	if svcErr.Service != "audit" || svcErr.Operation != "record" {
		t.Fatalf("unexpected service error %+v", svcErr)
	}
}

func TestNewEntryDropsTextOfSensitiveTurn(t *testing.T) {
	result := domain.NewParseResult("Envía 5 TIA, password hunter2")
	result.Intent = domain.IntentSend
	reply := domain.NewReply()
	reply.State = domain.StateNeedsClarification
	reply.ParseResult = result
	reply.SensitiveWarning = true

	entry := NewEntry("room-1", reply)
	if entry.RawText != "" {
		t.Fatalf("sensitive text must not be audited, got %q", entry.RawText)
	}
	if entry.Intent != domain.IntentSend || entry.State != domain.StateNeedsClarification {
		t.Fatalf("unexpected entry %+v", entry)
	}
}
