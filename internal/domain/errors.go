package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidChainID is returned when a chain ID is invalid
	ErrInvalidChainID = errors.New("invalid chain ID")

	// ErrNetworkMismatch is returned when the RPC reports a different chain than configured
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrNoNetwork is returned when a command needs a network and none was selected
	ErrNoNetwork = errors.New("no network selected (use --network)")

	// ErrNoSignerConfigured is returned when no sender can sign transactions
	ErrNoSignerConfigured = errors.New("no signer configured")

	// ErrContractNotFound is returned when an artifact can't be found
	ErrContractNotFound = errors.New("contract not found")

	// ErrTransactionReverted is returned when a mined transaction has a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrNotAContract is returned when an address has no deployed code
	ErrNotAContract = errors.New("address has no deployed code")

	// ErrNotOwner is returned when the signer does not own the contract it tries to hand over
	ErrNotOwner = errors.New("signer is not the contract owner")

	// ErrVerificationFailed is returned when contract verification fails
	ErrVerificationFailed = errors.New("verification failed")

	// ErrInvalidPlan is returned when the deployment plan is malformed
	ErrInvalidPlan = errors.New("invalid deployment plan")
)

// MissingKeyError reports a required key that is absent from a registry or
// network config file.
type MissingKeyError struct {
	Source string
	Key    string
}

func (e *MissingKeyError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("missing required key %q", e.Key)
	}
	return fmt.Sprintf("missing required key %q in %s", e.Key, e.Source)
}

// RevertError carries the decoded reason of a reverted transaction or call.
type RevertError struct {
	TxHash string
	Reason string
}

func (e *RevertError) Error() string {
	var b strings.Builder
	b.WriteString("execution reverted")
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.TxHash != "" {
		fmt.Fprintf(&b, " (tx %s)", e.TxHash)
	}
	return b.String()
}

func (e *RevertError) Unwrap() error {
	return ErrTransactionReverted
}

// UnknownStepError is returned when a step name is not part of the plan.
type UnknownStepError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownStepError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown step %q", e.Name)
	}
	return fmt.Sprintf("unknown step %q, did you mean: %s?", e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *UnknownStepError) Unwrap() error {
	return ErrNotFound
}
