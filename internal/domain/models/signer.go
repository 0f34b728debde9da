package models

import (
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Signer is a resolved sender able to sign transactions on the active network
type Signer struct {
	Name       string
	Address    common.Address
	Transactor *bind.TransactOpts
}
