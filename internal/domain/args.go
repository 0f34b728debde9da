package domain

import (
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/jpegd/jdeploy/internal/domain/config"
)

var referencePattern = regexp.MustCompile(`^\$\{([a-z]+)(?:\.([A-Za-z0-9_\-.]+))?\}$`)

// ArgSources are the values a step argument may refer to
type ArgSources struct {
	Registry AddressRegistry
	Config   *NetworkConfig
	Params   *config.DeployParams
	Signer   common.Address
}

// Resolve expands a single argument reference into its literal value.
// Anything that is not a reference is returned unchanged.
func (s *ArgSources) Resolve(raw string) (string, error) {
	return s.resolveOne(strings.TrimSpace(raw))
}

func (s *ArgSources) resolveOne(raw string) (string, error) {
	m := referencePattern.FindStringSubmatch(raw)
	if m == nil {
		return raw, nil
	}
	root, key := m[1], m[2]

	switch root {
	case "signer":
		return s.Signer.Hex(), nil
	case "registry":
		addr, err := s.Registry.Require(key)
		if err != nil {
			return "", err
		}
		return addr.Hex(), nil
	case "config":
		if s.Config == nil {
			return "", &MissingKeyError{Source: "network config", Key: key}
		}
		return s.Config.String(key)
	case "params":
		return s.resolveParam(key)
	default:
		return "", fmt.Errorf("unknown reference root %q in %s", root, raw)
	}
}

func (s *ArgSources) resolveParam(key string) (string, error) {
	missing := &MissingKeyError{Source: "deploy params", Key: key}
	if s.Params == nil {
		return "", missing
	}

	group, name, _ := strings.Cut(key, ".")
	var (
		v  string
		ok bool
	)
	switch group {
	case "dao":
		v, ok = s.Params.DAO, s.Params.DAO != "" && name == ""
	case "tokens":
		v, ok = s.Params.Tokens[name]
	case "values":
		v, ok = s.Params.Values[name]
	}
	if !ok || v == "" {
		return "", missing
	}
	return v, nil
}

// ConvertArgs resolves raw arguments and converts them to the Go values the
// ABI encoder expects for inputs.
func (s *ArgSources) ConvertArgs(inputs abi.Arguments, raw []string) ([]any, error) {
	if len(inputs) != len(raw) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(raw))
	}
	out := make([]any, len(raw))
	for i, input := range inputs {
		v, err := s.convert(raw[i], input.Type)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, input.Name, err)
		}
		out[i] = v
	}
	return out, nil
}

// convert resolves references against the ABI type. Only slice and array
// types are read as [a,b,c] lists, element by element, so list literals may
// nest and references may appear at any depth.
func (s *ArgSources) convert(raw string, typ abi.Type) (any, error) {
	raw = strings.TrimSpace(raw)
	if (typ.T != abi.SliceTy && typ.T != abi.ArrayTy) || !isList(raw) {
		resolved, err := s.resolveOne(raw)
		if err != nil {
			return nil, err
		}
		return ConvertValue(resolved, typ)
	}

	elems, err := splitList(raw)
	if err != nil {
		return nil, err
	}
	rv, err := makeList(typ, len(elems))
	if err != nil {
		return nil, err
	}
	for i, e := range elems {
		v, err := s.convert(e, *typ.Elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		rv.Index(i).Set(reflect.ValueOf(v))
	}
	return rv.Interface(), nil
}

// ConvertValue parses a literal into the Go representation of an ABI type
func ConvertValue(value string, typ abi.Type) (any, error) {
	value = strings.TrimSpace(value)

	switch typ.T {
	case abi.AddressTy:
		if !common.IsHexAddress(value) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, value)
		}
		return common.HexToAddress(value), nil

	case abi.BoolTy:
		return strconv.ParseBool(value)

	case abi.StringTy:
		return value, nil

	case abi.UintTy, abi.IntTy:
		n, ok := new(big.Int).SetString(value, 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", value)
		}
		if typ.T == abi.UintTy && n.Sign() < 0 {
			return nil, fmt.Errorf("negative value %q for %s", value, typ.String())
		}
		if (typ.T == abi.UintTy && n.BitLen() > typ.Size) || (typ.T == abi.IntTy && !fitsInt(n, typ.Size)) {
			return nil, fmt.Errorf("value %q overflows %s", value, typ.String())
		}
		goType := typ.GetType()
		if goType == reflect.TypeOf(new(big.Int)) {
			return n, nil
		}
		rv := reflect.New(goType).Elem()
		if typ.T == abi.UintTy {
			rv.SetUint(n.Uint64())
		} else {
			rv.SetInt(n.Int64())
		}
		return rv.Interface(), nil

	case abi.BytesTy:
		return hexutil.Decode(value)

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(value)
		if err != nil {
			return nil, err
		}
		if len(b) > typ.Size {
			return nil, fmt.Errorf("value %q longer than %s", value, typ.String())
		}
		rv := reflect.New(typ.GetType()).Elem()
		reflect.Copy(rv, reflect.ValueOf(b))
		return rv.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		if !isList(value) {
			return nil, fmt.Errorf("expected list for %s, got %q", typ.String(), value)
		}
		elems, err := splitList(value)
		if err != nil {
			return nil, err
		}
		rv, err := makeList(typ, len(elems))
		if err != nil {
			return nil, err
		}
		for i, e := range elems {
			v, err := ConvertValue(e, *typ.Elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			rv.Index(i).Set(reflect.ValueOf(v))
		}
		return rv.Interface(), nil
	}

	return nil, fmt.Errorf("unsupported argument type %s", typ.String())
}

// fitsInt reports whether n lies in [-2^(bits-1), 2^(bits-1)-1]
func fitsInt(n *big.Int, bits int) bool {
	if n.Sign() < 0 {
		// ^n == -n-1
		return new(big.Int).Not(n).BitLen() < bits
	}
	return n.BitLen() < bits
}

// makeList allocates the slice or array value for typ holding n elements
func makeList(typ abi.Type, n int) (reflect.Value, error) {
	if typ.T == abi.SliceTy {
		return reflect.MakeSlice(typ.GetType(), n, n), nil
	}
	if n != typ.Size {
		return reflect.Value{}, fmt.Errorf("expected %d elements for %s, got %d", typ.Size, typ.String(), n)
	}
	return reflect.New(typ.GetType()).Elem(), nil
}

func isList(s string) bool {
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}

// splitList splits the top level of a [a,b,c] list. Commas inside nested
// brackets belong to the nested element.
func splitList(s string) ([]string, error) {
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil, nil
	}
	var (
		parts []string
		depth int
		start int
	)
	for i, c := range inner {
		switch c {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced brackets in %s", s)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets in %s", s)
	}
	return append(parts, strings.TrimSpace(inner[start:])), nil
}
