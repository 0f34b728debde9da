package domain

import "github.com/ethereum/go-ethereum/common"

// NoContractsReason is the revert string of the contract-caller guard
const NoContractsReason = "NO_CONTRACTS"

// GuardResult is the outcome of evaluating the contract-caller guard for one caller
type GuardResult struct {
	Guard       common.Address
	Caller      common.Address
	IsContract  bool
	Whitelisted bool
	Allowed     bool
	Reason      string
}

// EvaluateGuard applies the guard rule: externally owned accounts always pass,
// contracts pass only when whitelisted on the guarded contract.
func EvaluateGuard(guard, caller common.Address, isContract, whitelisted bool) *GuardResult {
	res := &GuardResult{
		Guard:       guard,
		Caller:      caller,
		IsContract:  isContract,
		Whitelisted: whitelisted,
		Allowed:     !isContract || whitelisted,
	}
	if !res.Allowed {
		res.Reason = NoContractsReason
	}
	return res
}

// Err returns a RevertError for a rejected caller, nil otherwise
func (r *GuardResult) Err() error {
	if r.Allowed {
		return nil
	}
	return &RevertError{Reason: r.Reason}
}
