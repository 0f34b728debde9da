package models

import (
	"github.com/ethereum/go-ethereum/common"
)

// DeployedContract is the outcome of a mined contract creation
type DeployedContract struct {
	Address         common.Address
	TxHash          common.Hash
	ConstructorArgs []byte
}

// ProxyDeployment groups the contracts created for an upgradeable deployment.
// Admin is only set when the proxy admin was created in the same run.
type ProxyDeployment struct {
	Proxy          DeployedContract
	Implementation DeployedContract
	Admin          *DeployedContract
	AdminAddress   common.Address
}

// TxResult is a mined state-changing call
type TxResult struct {
	TxHash      common.Hash
	BlockNumber uint64
}

// VerificationStatus represents the verification status
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "UNVERIFIED"
	VerificationStatusVerified   VerificationStatus = "VERIFIED"
	VerificationStatusFailed     VerificationStatus = "FAILED"
	VerificationStatusPartial    VerificationStatus = "PARTIAL"
)

// VerifierStatus is the result reported by a single explorer
type VerifierStatus struct {
	Status string `json:"status"`
	URL    string `json:"url,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// VerificationRequest describes a contract to verify
type VerificationRequest struct {
	Artifact        *Artifact
	Address         common.Address
	ConstructorArgs []byte
}

// VerificationResult aggregates the per-explorer outcome
type VerificationResult struct {
	Status    VerificationStatus
	Verifiers map[string]VerifierStatus
	// URL is the first explorer page that shows the verified source
	URL    string
	Reason string
}
