package domain

import (
	"fmt"
	"maps"
	"slices"

	"github.com/ethereum/go-ethereum/common"
)

// AddressRegistry maps symbolic contract names to deployed addresses.
// It is persisted as a flat JSON object.
type AddressRegistry map[string]string

// NewAddressRegistry returns an empty registry
func NewAddressRegistry() AddressRegistry {
	return make(AddressRegistry)
}

// Has reports whether key is present
func (r AddressRegistry) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Require returns the address stored under key or a MissingKeyError.
func (r AddressRegistry) Require(key string) (common.Address, error) {
	raw, ok := r[key]
	if !ok || raw == "" {
		return common.Address{}, &MissingKeyError{Source: "address registry", Key: key}
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("registry key %q: %w: %s", key, ErrInvalidAddress, raw)
	}
	return common.HexToAddress(raw), nil
}

// Set stores addr under key using the checksummed hex form.
func (r AddressRegistry) Set(key string, addr common.Address) {
	r[key] = addr.Hex()
}

// Keys returns the registry keys in lexical order
func (r AddressRegistry) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// Clone returns an independent copy
func (r AddressRegistry) Clone() AddressRegistry {
	if r == nil {
		return NewAddressRegistry()
	}
	return maps.Clone(r)
}
