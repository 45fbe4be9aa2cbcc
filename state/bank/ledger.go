package bank

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"vaultrewards/native/vaultrewards"
	"vaultrewards/storage"
)

var (
	balancePrefix = []byte("bank/reward/balance/")
	supplyKey     = []byte("bank/reward/supply")
)

// ErrMintCapExceeded is returned when a mint would push supply past the cap.
var ErrMintCapExceeded = errors.New("bank: reward mint cap exceeded")

// Ledger is a key-value backed reward token ledger. Every mint updates the
// recipient balance and the total supply in one batch.
type Ledger struct {
	mu      sync.Mutex
	db      storage.Database
	mintCap vaultrewards.Amount
}

func NewLedger(db storage.Database) *Ledger {
	return &Ledger{db: db}
}

// SetMintCap bounds total supply. A zero cap disables the bound.
func (l *Ledger) SetMintCap(limit vaultrewards.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mintCap = limit
}

// MintOrTransfer credits amount to addr.
func (l *Ledger) MintOrTransfer(addr common.Address, amount vaultrewards.Amount) error {
	if amount.IsZero() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	supply, err := l.load(supplyKey)
	if err != nil {
		return err
	}
	newSupply, err := supply.Add(amount)
	if err != nil {
		return err
	}
	if !l.mintCap.IsZero() && newSupply.Cmp(l.mintCap) > 0 {
		return fmt.Errorf("%w: supply %s + %s > %s", ErrMintCapExceeded, supply, amount, l.mintCap)
	}
	balance, err := l.load(balanceKey(addr))
	if err != nil {
		return err
	}
	newBalance, err := balance.Add(amount)
	if err != nil {
		return err
	}

	batch := new(storage.Batch)
	if err := putAmount(batch, balanceKey(addr), newBalance); err != nil {
		return err
	}
	if err := putAmount(batch, supplyKey, newSupply); err != nil {
		return err
	}
	return l.db.Write(batch)
}

// BalanceOf returns the reward token balance held by addr.
func (l *Ledger) BalanceOf(addr common.Address) (vaultrewards.Amount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(balanceKey(addr))
}

// Supply returns the total amount minted through the ledger.
func (l *Ledger) Supply() (vaultrewards.Amount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(supplyKey)
}

func (l *Ledger) load(key []byte) (vaultrewards.Amount, error) {
	data, err := l.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return vaultrewards.Amount{}, nil
	}
	if err != nil {
		return vaultrewards.Amount{}, err
	}
	var raw big.Int
	if err := rlp.DecodeBytes(data, &raw); err != nil {
		return vaultrewards.Amount{}, fmt.Errorf("bank: decode balance: %w", err)
	}
	return vaultrewards.AmountFromBig(&raw)
}

func putAmount(batch *storage.Batch, key []byte, amount vaultrewards.Amount) error {
	encoded, err := rlp.EncodeToBytes(amount.Raw())
	if err != nil {
		return fmt.Errorf("bank: encode balance: %w", err)
	}
	batch.Put(key, encoded)
	return nil
}

func balanceKey(addr common.Address) []byte {
	key := make([]byte, 0, len(balancePrefix)+common.AddressLength)
	key = append(key, balancePrefix...)
	return append(key, addr.Bytes()...)
}
