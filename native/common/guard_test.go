package common

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestRequireGuardian(t *testing.T) {
	guardian := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	other := common.HexToAddress("0x0000000000000000000000000000000000000001")
	view := StaticGuardian(guardian)

	if err := RequireGuardian(view, guardian); err != nil {
		t.Fatalf("guardian rejected: %v", err)
	}
	if err := RequireGuardian(view, other); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := RequireGuardian(nil, guardian); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("nil view must deny, got %v", err)
	}
}

func TestZeroStaticGuardianDeniesEveryone(t *testing.T) {
	var view StaticGuardian
	if view.IsGuardian(common.Address{}) {
		t.Fatalf("zero guardian must not authorise the zero address")
	}
}
