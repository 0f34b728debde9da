package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// DAOKey is the network config role that owns administrative rights.
const DAOKey = "dao"

// NetworkConfig is the per-network role mapping loaded from config/<network>.json.
// Values are addresses, flags or plain strings.
type NetworkConfig struct {
	Source string
	Values map[string]any
}

// NewNetworkConfig wraps decoded values read from source.
func NewNetworkConfig(source string, values map[string]any) *NetworkConfig {
	if values == nil {
		values = make(map[string]any)
	}
	return &NetworkConfig{Source: source, Values: values}
}

func (c *NetworkConfig) lookup(key string) (any, error) {
	v, ok := c.Values[key]
	if !ok || v == nil {
		return nil, &MissingKeyError{Source: c.Source, Key: key}
	}
	return v, nil
}

// Address returns the address stored for a role.
func (c *NetworkConfig) Address(key string) (common.Address, error) {
	v, err := c.lookup(key)
	if err != nil {
		return common.Address{}, err
	}
	s, ok := v.(string)
	if !ok || !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%s key %q: %w: %v", c.Source, key, ErrInvalidAddress, v)
	}
	return common.HexToAddress(s), nil
}

// Bool returns a flag value.
func (c *NetworkConfig) Bool(key string) (bool, error) {
	v, err := c.lookup(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s key %q: expected boolean, got %T", c.Source, key, v)
	}
	return b, nil
}

// String returns the raw textual value of a key. Numbers and flags are formatted.
func (c *NetworkConfig) String(key string) (string, error) {
	v, err := c.lookup(key)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return fmt.Sprint(t), nil
	}
}

// Keys returns all roles in lexical order
func (c *NetworkConfig) Keys() []string {
	return slices.Sorted(maps.Keys(c.Values))
}
