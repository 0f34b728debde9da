package models

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Artifact is a compiled contract ready to be deployed
type Artifact struct {
	Name     string
	Path     string
	ABI      abi.ABI
	Bytecode []byte
	// Format is "foundry" or "hardhat"
	Format string
	// Source is the solidity file the contract was compiled from, when known
	Source          string
	CompilerVersion string
}

// VerifyTarget is the "path:Name" identifier forge verify-contract expects
func (a *Artifact) VerifyTarget() string {
	if a.Source == "" {
		return a.Name
	}
	return a.Source + ":" + a.Name
}

// HasMethod reports whether the ABI declares a method with this name
func (a *Artifact) HasMethod(name string) bool {
	_, ok := a.ABI.Methods[name]
	return ok
}
