package wallet

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/service/cache"
	"github.com/kapu/tia-transfer-bot-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const celestiaAddr = "celestia16e3rskkaa8l7p92uny3pqh2c96mlkhq524aksf"

func newTestExecutor(t *testing.T, timeout time.Duration) (*RedisExecutor, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	exec := NewRedisExecutor(cache.NewCacheServiceWithClient(client, zap.NewNop()), RedisExecutorConfig{ReplyTimeout: timeout}, zap.NewNop())
	exec.newID = func() string { return "req-1" }
	return exec, client
}

// runWallet plays the wallet runtime: it takes one request and answers with receipt.
func runWallet(t *testing.T, client *redis.Client, receipt domain.Receipt) <-chan Request {
	t.Helper()
	seen := make(chan Request, 1)
	go func() {
		values, err := client.BRPop(context.Background(), 5*time.Second, DefaultRedisExecutorConfig().QueueKey).Result()
		if err != nil {
			close(seen)
			return
		}
		var req Request
		if err := json.Unmarshal([]byte(values[1]), &req); err != nil {
			close(seen)
			return
		}
		payload, _ := json.Marshal(receipt)
		client.LPush(context.Background(), req.ReplyTo, payload)
		seen <- req
	}()
	return seen
}

func testIntent() domain.TransferIntent {
	return domain.TransferIntent{ToAddress: celestiaAddr, Amount: 5, Unit: "TIA", Chain: domain.ChainCelestia}
}

func TestExecuteReturnsReceipt(t *testing.T) {
	exec, client := newTestExecutor(t, 5*time.Second)
	seen := runWallet(t, client, domain.Receipt{TxHash: "ABC123", GasUsed: 81234, Simulated: true})

	receipt, err := exec.Execute(context.Background(), testIntent())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if receipt.TxHash != "ABC123" || receipt.GasUsed != 81234 || !receipt.Simulated {
		t.Fatalf("unexpected receipt %+v", receipt)
	}

	req, ok := <-seen
	if !ok {
		t.Fatalf("wallet runtime did not see the request")
	}
	if req.ID != "req-1" || req.ReplyTo != "transfer:results:req-1" {
		t.Fatalf("unexpected request routing %+v", req)
	}
	if req.Intent != testIntent() {
		t.Fatalf("unexpected intent %+v", req.Intent)
	}
}

func TestExecuteRejectedByWallet(t *testing.T) {
	exec, client := newTestExecutor(t, 5*time.Second)
	runWallet(t, client, domain.Receipt{Error: "insufficient funds"})

	receipt, err := exec.Execute(context.Background(), testIntent())
	if err == nil {
		t.Fatalf("expected wallet error")
	}
	var walletErr *errors.WalletError
	if !stderrors.As(err, &walletErr) || walletErr.RequestID != "req-1" {
		t.Fatalf("expected WalletError for req-1, got %v", err)
	}
	if receipt == nil || receipt.Error != "insufficient funds" {
		t.Fatalf("expected rejected receipt to be returned, got %+v", receipt)
	}
	if got := FormatError(err); got != "❌ Error en la transacción: insufficient funds" {
		t.Fatalf("unexpected formatted error %q", got)
	}
}

func TestExecuteTimesOut(t *testing.T) {
	exec, _ := newTestExecutor(t, time.Second)

	_, err := exec.Execute(context.Background(), testIntent())
	if !IsWalletError(err) {
		t.Fatalf("expected wallet timeout error, got %v", err)
	}
	if !strings.Contains(err.Error(), "did not reply") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestFormatReceipt(t *testing.T) {
	lines := FormatReceipt(testIntent(), &domain.Receipt{TxHash: "ABC123", GasUsed: 81234, Simulated: true})

	want := []string{
		"✅ ¡Transacción simulada con éxito!",
		"",
		"Hash: ABC123",
		"Enviado: 5 TIA",
		"Destino: celestia16e3rskkaa8l...",
		"Gas usado: 81234",
		"",
		"Esta fue una transacción de demostración.",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected receipt lines:\n%s", strings.Join(lines, "\n"))
	}

	executed := FormatReceipt(testIntent(), &domain.Receipt{TxHash: "X"})
	if executed[0] != "✅ ¡Transacción ejecutada con éxito!" {
		t.Fatalf("unexpected headline %q", executed[0])
	}
}

func TestFormatErrorPlainError(t *testing.T) {
	if got := FormatError(stderrors.New("boom")); got != "❌ Error en la transacción: boom" {
		t.Fatalf("unexpected %q", got)
	}
}
