package common

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var ErrUnauthorized = errors.New("caller not authorised")

// GuardianView reports whether an address holds the guardian role.
type GuardianView interface {
	IsGuardian(addr common.Address) bool
}

// StaticGuardian authorises exactly one configured address.
type StaticGuardian common.Address

func (g StaticGuardian) IsGuardian(addr common.Address) bool {
	guardian := common.Address(g)
	if guardian == (common.Address{}) {
		return false
	}
	return guardian == addr
}

// RequireGuardian fails with ErrUnauthorized unless caller is a guardian. A
// missing view denies everyone.
func RequireGuardian(view GuardianView, caller common.Address) error {
	if view == nil || !view.IsGuardian(caller) {
		return ErrUnauthorized
	}
	return nil
}
