package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/platform-hal/hal-l1test/pkg/hal"
)

// Load reads and parses the fixture at path.
//
// A missing or empty file returns a nil Config and an error for which
// IsFatal is true. A malformed document returns an empty, non-nil Config
// together with ErrFixtureMalformed so the caller can continue with
// defaults. Keys that are absent or of the wrong type are left at their zero
// value and reported through Config.Diagnostics.
//
// Every call returns a fresh Config; earlier results are never modified.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: fmt.Sprintf("failed to read file: %v", err),
			Cause:   ErrFixtureMissing,
		}
	}

	cfg, err := Parse(data)
	if cfg != nil {
		cfg.source = path
	}
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return cfg, le
		}
		return cfg, err
	}
	return cfg, nil
}

// Parse parses fixture bytes. See Load for the error contract.
func Parse(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &LoadError{Message: "file is empty", Cause: ErrFixtureEmpty}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return &Config{}, &LoadError{
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Cause:   ErrFixtureMalformed,
		}
	}
	if doc == nil {
		// The document was the literal null.
		return &Config{}, &LoadError{Message: "document is not an object", Cause: ErrFixtureMalformed}
	}

	cfg := &Config{}
	p := &parser{doc: doc, cfg: cfg}

	if v, ok := p.integer(KeyMaxEthPort); ok {
		if v < 0 || v > math.MaxInt32 {
			p.warn(KeyMaxEthPort, fmt.Sprintf("value %d out of range", v))
		} else {
			cfg.maxEthPort = int(v)
		}
	}
	if v, ok := p.str(KeyPartnerID); ok {
		cfg.partnerID = v
	}
	cfg.factoryCmVariants = stringArray(p, KeyFactoryCmVariant)
	cfg.interfaceNames = stringArray(p, KeyInterfaceNames)
	cfg.supportedCPUs = intArray(p, KeySupportedCPUs, math.MinInt32, math.MaxInt32, func(v int64) hal.CPU { return hal.CPU(v) })
	cfg.powerStates = intArray(p, KeySupportedPSM, math.MinInt32, math.MaxInt32, func(v int64) hal.PowerState { return hal.PowerState(v) })
	cfg.fanIndices = intArray(p, KeyFanIndex, 0, math.MaxUint32, func(v int64) uint32 { return uint32(v) })

	return cfg, nil
}

// parser holds the decoded top level object while fields are extracted.
type parser struct {
	doc map[string]json.RawMessage
	cfg *Config
}

func (p *parser) warn(key, msg string) {
	p.cfg.diagnostics = append(p.cfg.diagnostics, Diagnostic{Key: key, Message: msg})
}

// raw returns the value of key and whether it is present and not null.
func (p *parser) raw(key string) (json.RawMessage, bool) {
	v, ok := p.doc[key]
	if !ok {
		return nil, false
	}
	if kindOf(v) == kindNull {
		p.warn(key, "value is null")
		return nil, false
	}
	return v, true
}

func (p *parser) integer(key string) (int64, bool) {
	v, ok := p.raw(key)
	if !ok {
		return 0, false
	}
	n, err := parseInteger(v)
	if err != nil {
		p.warn(key, err.Error())
		return 0, false
	}
	return n, true
}

func (p *parser) str(key string) (string, bool) {
	v, ok := p.raw(key)
	if !ok {
		return "", false
	}
	s, err := parseString(v)
	if err != nil {
		p.warn(key, err.Error())
		return "", false
	}
	return s, true
}

// elements returns the elements of the array at key.
func (p *parser) elements(key string) ([]json.RawMessage, bool) {
	v, ok := p.raw(key)
	if !ok {
		return nil, false
	}
	if kindOf(v) != kindArray {
		p.warn(key, fmt.Sprintf("expected array, got %s", kindOf(v)))
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(v, &elems); err != nil {
		p.warn(key, err.Error())
		return nil, false
	}
	return elems, true
}

// stringArray extracts an array of strings. Any bad element leaves the whole
// field empty.
func stringArray(p *parser, key string) []string {
	elems, ok := p.elements(key)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(elems))
	for i, e := range elems {
		s, err := parseString(e)
		if err != nil {
			p.warn(key, fmt.Sprintf("element %d: %v; field ignored", i, err))
			return nil
		}
		out = append(out, s)
	}
	return out
}

// intArray extracts an array of integers in [lo, hi] converted with conv.
// Any bad element leaves the whole field empty.
func intArray[T any](p *parser, key string, lo, hi int64, conv func(int64) T) []T {
	elems, ok := p.elements(key)
	if !ok {
		return nil
	}
	out := make([]T, 0, len(elems))
	for i, e := range elems {
		n, err := parseInteger(e)
		if err == nil && (n < lo || n > hi) {
			err = fmt.Errorf("value %d out of range", n)
		}
		if err != nil {
			p.warn(key, fmt.Sprintf("element %d: %v; field ignored", i, err))
			return nil
		}
		out = append(out, conv(n))
	}
	return out
}

type jsonKind int

const (
	kindNull jsonKind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
)

func (k jsonKind) String() string {
	switch k {
	case kindNull:
		return "null"
	case kindBool:
		return "boolean"
	case kindNumber:
		return "number"
	case kindString:
		return "string"
	case kindArray:
		return "array"
	default:
		return "object"
	}
}

// kindOf classifies a syntactically valid JSON value by its first byte.
func kindOf(v json.RawMessage) jsonKind {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return kindNull
	}
	switch v[0] {
	case 'n':
		return kindNull
	case 't', 'f':
		return kindBool
	case '"':
		return kindString
	case '[':
		return kindArray
	case '{':
		return kindObject
	default:
		return kindNumber
	}
}

func parseString(v json.RawMessage) (string, error) {
	if k := kindOf(v); k != kindString {
		return "", fmt.Errorf("expected string, got %s", k)
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", err
	}
	return s, nil
}

// parseInteger accepts integral JSON numbers, including forms like 2.0.
func parseInteger(v json.RawMessage) (int64, error) {
	if k := kindOf(v); k != kindNumber {
		return 0, fmt.Errorf("expected number, got %s", k)
	}
	text := string(bytes.TrimSpace(v))
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %s", text)
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("expected integer, got %s", text)
	}
	return int64(f), nil
}
