package bank

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"vaultrewards/native/vaultrewards"
	"vaultrewards/storage"
)

func TestLedgerCreditsBalanceAndSupply(t *testing.T) {
	ledger := NewLedger(storage.NewMemDB())
	alice := common.HexToAddress("0x01")
	bob := common.HexToAddress("0x02")

	if err := ledger.MintOrTransfer(alice, vaultrewards.MustParseAmount("9920")); err != nil {
		t.Fatalf("mint alice: %v", err)
	}
	if err := ledger.MintOrTransfer(alice, vaultrewards.MustParseAmount("0.5")); err != nil {
		t.Fatalf("mint alice again: %v", err)
	}
	if err := ledger.MintOrTransfer(bob, vaultrewards.MustParseAmount("160")); err != nil {
		t.Fatalf("mint bob: %v", err)
	}

	balance, err := ledger.BalanceOf(alice)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if got := balance.String(); got != "9920.5" {
		t.Fatalf("expected alice balance 9920.5, got %s", got)
	}
	supply, err := ledger.Supply()
	if err != nil {
		t.Fatalf("supply: %v", err)
	}
	if got := supply.String(); got != "10080.5" {
		t.Fatalf("expected supply 10080.5, got %s", got)
	}
}

func TestLedgerZeroAmountIsNoop(t *testing.T) {
	ledger := NewLedger(storage.NewMemDB())
	if err := ledger.MintOrTransfer(common.HexToAddress("0x01"), vaultrewards.Amount{}); err != nil {
		t.Fatalf("expected no error for zero amount: %v", err)
	}
	supply, err := ledger.Supply()
	if err != nil {
		t.Fatalf("supply: %v", err)
	}
	if !supply.IsZero() {
		t.Fatalf("expected zero supply, got %s", supply)
	}
}

func TestLedgerMintCap(t *testing.T) {
	ledger := NewLedger(storage.NewMemDB())
	ledger.SetMintCap(vaultrewards.MustAmount(100))
	addr := common.HexToAddress("0x01")

	if err := ledger.MintOrTransfer(addr, vaultrewards.MustAmount(100)); err != nil {
		t.Fatalf("mint up to cap: %v", err)
	}
	err := ledger.MintOrTransfer(addr, vaultrewards.AmountFromRaw(1))
	if !errors.Is(err, ErrMintCapExceeded) {
		t.Fatalf("expected ErrMintCapExceeded, got %v", err)
	}
	balance, err := ledger.BalanceOf(addr)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(vaultrewards.MustAmount(100)) {
		t.Fatalf("expected balance to stay at cap, got %s", balance)
	}
}
