// Package variants converts product variants to and from the single string
// stored in a product's variants column.
package variants

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"industrial-catalog/internal/domain"
)

// ErrMalformedVariantData is returned when stored variant data cannot be decoded
var ErrMalformedVariantData = errors.New("malformed variant data")

// Encode serializes variants into a JSON array. A nil or empty slice encodes as "[]".
func Encode(variants []domain.ProductVariant) (string, error) {
	if variants == nil {
		variants = []domain.ProductVariant{}
	}

	data, err := json.Marshal(variants)
	if err != nil {
		return "", fmt.Errorf("failed to encode variants: %w", err)
	}

	return string(data), nil
}

// Decode parses a string produced by Encode. An empty string decodes to an
// empty slice. Field types are checked but presence is not: a variant missing
// name or image decodes with empty strings, so callers must tolerate them.
func Decode(raw string) ([]domain.ProductVariant, error) {
	if len(bytes.TrimSpace([]byte(raw))) == 0 {
		return []domain.ProductVariant{}, nil
	}

	var decoded []domain.ProductVariant
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedVariantData, err)
	}

	// "null" unmarshals without error into a nil slice
	if decoded == nil {
		return nil, fmt.Errorf("%w: not an array", ErrMalformedVariantData)
	}

	return decoded, nil
}

// EncodeColumn produces the text-array column value for variants: no elements
// when there are no variants, otherwise one element holding the encoded array.
func EncodeColumn(variants []domain.ProductVariant) ([]string, error) {
	if len(variants) == 0 {
		return []string{}, nil
	}

	encoded, err := Encode(variants)
	if err != nil {
		return nil, err
	}

	return []string{encoded}, nil
}

// DecodeColumn reads the variants back out of a text-array column value.
func DecodeColumn(column []string) ([]domain.ProductVariant, error) {
	switch len(column) {
	case 0:
		return []domain.ProductVariant{}, nil
	case 1:
		return Decode(column[0])
	default:
		return nil, fmt.Errorf("%w: expected at most one element, got %d", ErrMalformedVariantData, len(column))
	}
}
