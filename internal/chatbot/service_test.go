package chatbot

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/metrics"
	"github.com/kapu/tia-transfer-bot-go/internal/service/parser"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

const celestiaAddr = "celestia16e3rskkaa8l7p92uny3pqh2c96mlkhq524aksf"

type fakeEnhancer struct {
	result *domain.ParseResult
	calls  int
	panics bool
}

func (f *fakeEnhancer) Enhance(_ context.Context, local *domain.ParseResult, _ string) *domain.ParseResult {
	f.calls++
	if f.panics {
		panic("enhancer exploded")
	}
	if f.result != nil {
		return f.result
	}
	return local
}

type fakeExtractor struct {
	result *domain.ParseResult
}

func (f *fakeExtractor) Extract(_ string) *domain.ParseResult {
	return f.result
}

func newTestService(enhancer Enhancer) *Service {
	return NewService(parser.NewExtractor(), enhancer, nil, zap.NewNop())
}

func TestProcessMessageReady(t *testing.T) {
	svc := newTestService(nil)

	reply := svc.ProcessMessage(context.Background(), "Envía 5 TIA a "+celestiaAddr)

	if reply.State != domain.StateReady || !reply.TransactionReady {
		t.Fatalf("expected ready reply, got state=%s ready=%v", reply.State, reply.TransactionReady)
	}
	want := &domain.TransferIntent{ToAddress: celestiaAddr, Amount: 5, Unit: "TIA", Chain: domain.ChainCelestia}
	if !reflect.DeepEqual(reply.TransactionData, want) {
		t.Fatalf("unexpected transfer intent %+v", reply.TransactionData)
	}

	wantLines := []string{
		"✅ ¡Perfecto! He entendido tu solicitud:",
		"💰 Cantidad: 5 TIA",
		"📍 Destino: celestia16e3rskkaa8l...",
		"🌐 Red: celestia",
		"",
		"Procediendo a ejecutar la transacción...",
	}
	if !reflect.DeepEqual(reply.Responses, wantLines) {
		t.Fatalf("unexpected responses:\n%s", strings.Join(reply.Responses, "\n"))
	}

	session := svc.Session()
	if session.PendingTransaction == nil || session.PendingTransaction.Amount != 5 {
		t.Fatalf("expected pending transaction to be stored, got %+v", session.PendingTransaction)
	}
	if session.LastParseResult == nil || session.LastParseResult.RawText != "Envía 5 TIA a "+celestiaAddr {
		t.Fatalf("expected last parse result to be stored")
	}
}

func TestProcessMessageNotSendIntent(t *testing.T) {
	svc := newTestService(nil)

	reply := svc.ProcessMessage(context.Background(), "hola, ¿qué tal?")

	if reply.State != domain.StateNotSendIntent || reply.TransactionReady || reply.TransactionData != nil {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if !reflect.DeepEqual(reply.Responses, notSendIntentResponses()) {
		t.Fatalf("unexpected responses %v", reply.Responses)
	}
	if svc.Session().PendingTransaction != nil {
		t.Fatalf("non-send turn must not create a pending transaction")
	}
}

func TestProcessMessageClarification(t *testing.T) {
	svc := newTestService(nil)

	reply := svc.ProcessMessage(context.Background(), "Envía TIA")

	if reply.State != domain.StateNeedsClarification {
		t.Fatalf("expected clarification, got %s", reply.State)
	}
	questions := reply.ParseResult.ClarifyingQuestions
	if len(questions) == 0 {
		t.Fatalf("expected clarifying questions")
	}
	if len(reply.Responses) != len(questions)+2 {
		t.Fatalf("expected intro, %d questions and closing line, got %v", len(questions), reply.Responses)
	}
	if reply.Responses[0] != "Necesito más información para procesar tu transacción:" {
		t.Fatalf("unexpected intro %q", reply.Responses[0])
	}
	if reply.Responses[1] != parser.QuestionAddress {
		t.Fatalf("expected address question first, got %q", reply.Responses[1])
	}
	if reply.Responses[len(reply.Responses)-1] != "¿Podrías proporcionar estos datos?" {
		t.Fatalf("unexpected closing line %q", reply.Responses[len(reply.Responses)-1])
	}
}

func TestProcessMessageInvalidAddress(t *testing.T) {
	svc := newTestService(nil)

	reply := svc.ProcessMessage(context.Background(), "Envía 5 TIA a celestia1abc")

	if reply.State != domain.StateInvalidAddress || reply.TransactionReady {
		t.Fatalf("expected invalid address reply, got %s", reply.State)
	}
	if !reflect.DeepEqual(reply.Responses, invalidAddressResponses()) {
		t.Fatalf("unexpected responses %v", reply.Responses)
	}
}

func TestProcessMessageWarnsAboutSensitiveDataAndStillClarifies(t *testing.T) {
	enhancer := &fakeEnhancer{}
	svc := newTestService(enhancer)

	reply := svc.ProcessMessage(context.Background(), "Envía 5 TIA, mi clave privada es abc123")

	if reply.State != domain.StateNeedsClarification || reply.TransactionReady {
		t.Fatalf("expected clarification, got %s", reply.State)
	}
	if !reply.SensitiveWarning {
		t.Fatalf("expected sensitive warning flag")
	}
	if !reflect.DeepEqual(reply.Responses[:2], sensitiveWarningResponses()) {
		t.Fatalf("warning must come first, got %v", reply.Responses)
	}
	if reply.Responses[2] != "Necesito más información para procesar tu transacción:" {
		t.Fatalf("clarification must follow the warning, got %v", reply.Responses)
	}
	if enhancer.calls != 1 {
		t.Fatalf("expected the turn to run through the enhancer, got %d calls", enhancer.calls)
	}
}

func TestProcessMessageCompleteInstructionMentioningPasswordIsReady(t *testing.T) {
	svc := newTestService(nil)

	reply := svc.ProcessMessage(context.Background(), "Envía 5 TIA a "+celestiaAddr+", es el pago del password manager")

	if reply.State != domain.StateReady || !reply.TransactionReady {
		t.Fatalf("expected ready reply, got state=%s ready=%v", reply.State, reply.TransactionReady)
	}
	want := &domain.TransferIntent{ToAddress: celestiaAddr, Amount: 5, Unit: "TIA", Chain: domain.ChainCelestia}
	if !reflect.DeepEqual(reply.TransactionData, want) {
		t.Fatalf("unexpected transfer intent %+v", reply.TransactionData)
	}
	if !strings.HasPrefix(reply.Responses[0], "⚠️") {
		t.Fatalf("expected warning line first, got %v", reply.Responses)
	}
	if svc.Session().PendingTransaction == nil {
		t.Fatalf("ready turn must store the pending transaction")
	}
}

func TestProcessMessageUsesEnhancedResult(t *testing.T) {
	five := 5.0
	unit := "TIA"
	enhanced := domain.NewParseResult("manda cinco tias")
	enhanced.Intent = domain.IntentSend
	enhanced.Address = celestiaAddr
	enhanced.AddressValid = true
	enhanced.Chain = domain.ChainCelestia
	enhanced.Amount = domain.Amount{Original: "cinco tias", Numeric: &five, Unit: &unit}
	enhanced.Confidence = 0.9

	enhancer := &fakeEnhancer{result: enhanced}
	svc := newTestService(enhancer)

	reply := svc.ProcessMessage(context.Background(), "manda cinco tias")

	if enhancer.calls != 1 {
		t.Fatalf("expected one enhancer call, got %d", enhancer.calls)
	}
	if reply.State != domain.StateReady || reply.TransactionData.ToAddress != celestiaAddr {
		t.Fatalf("expected ready reply from enhanced result, got %s", reply.State)
	}
}

func TestProcessMessagePanicYieldsApologyAndKeepsSession(t *testing.T) {
	svc := newTestService(nil)
	first := svc.ProcessMessage(context.Background(), "Envía 5 TIA a "+celestiaAddr)
	if first.State != domain.StateReady {
		t.Fatalf("setup turn failed: %s", first.State)
	}
	before := svc.Session()

	svc.enhancer = &fakeEnhancer{panics: true}
	reply := svc.ProcessMessage(context.Background(), "Envía TIA")

	if reply.State != domain.StateFailure {
		t.Fatalf("expected failure state, got %s", reply.State)
	}
	if !reflect.DeepEqual(reply.Responses, apologyResponses()) {
		t.Fatalf("unexpected responses %v", reply.Responses)
	}
	if !reflect.DeepEqual(svc.Session(), before) {
		t.Fatalf("session changed after failed turn")
	}
}

func TestProcessMessageUnmatchedBranchYieldsApology(t *testing.T) {
	// A send result without an address that does not ask for clarification.
	broken := domain.NewParseResult("envía algo")
	broken.Intent = domain.IntentSend
	svc := NewService(&fakeExtractor{result: broken}, nil, nil, zap.NewNop())

	reply := svc.ProcessMessage(context.Background(), "envía algo")

	if reply.State != domain.StateFailure || len(reply.Responses) == 0 {
		t.Fatalf("expected apology, got %+v", reply)
	}
	if !svc.Session().IsEmpty() {
		t.Fatalf("session must stay unchanged")
	}
}

func TestProcessMessageAlwaysAnswers(t *testing.T) {
	inputs := []string{
		"",
		"🚀🚀🚀",
		strings.Repeat("a", 500),
		"Envía " + strings.Repeat("9", 499),
	}

	svc := newTestService(nil)
	for _, input := range inputs {
		reply := svc.ProcessMessage(context.Background(), input)
		if reply == nil || len(reply.Responses) == 0 {
			t.Fatalf("input %q left unanswered", input)
		}
		if reply.TransactionReady != (reply.TransactionData != nil) {
			t.Fatalf("input %q: transactionReady and transactionData disagree", input)
		}
	}
}

func TestResetMatchesFreshSession(t *testing.T) {
	used := newTestService(nil)
	used.ProcessMessage(context.Background(), "Envía 5 TIA a "+celestiaAddr)
	used.Reset()

	if !used.Session().IsEmpty() {
		t.Fatalf("reset must clear every session field")
	}

	fresh := newTestService(nil)
	text := "Manda 2 mocha a " + celestiaAddr
	got := used.ProcessMessage(context.Background(), text)
	want := fresh.ProcessMessage(context.Background(), text)

	if !reflect.DeepEqual(got.Responses, want.Responses) || !reflect.DeepEqual(got.TransactionData, want.TransactionData) {
		t.Fatalf("reset session differs from fresh session:\n%v\n%v", got.Responses, want.Responses)
	}
}

func TestProcessMessageRecordsTurnMetric(t *testing.T) {
	counter := metrics.TurnsTotal.WithLabelValues(domain.StateNotSendIntent.String())
	before := testutil.ToFloat64(counter)

	newTestService(nil).ProcessMessage(context.Background(), "buenos días")

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Fatalf("expected turn counter to grow by one, got %v -> %v", before, got)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{5: "5", 0.1: "0.1", 0.001: "0.001", 2.5: "2.5"}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Fatalf("FormatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}
