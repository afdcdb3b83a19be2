package pricing

import (
	"errors"

	"github.com/Simplici0/glassquote/internal/catalog"
)

// ValidationError is implemented by every error that rejects a quotation request.
// Its message is safe to show to the client.
type ValidationError interface {
	error
	RejectsRequest()
}

// IsValidation reports whether err rejects the request rather than signalling a fault.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// Dimension names the bound a DimensionError violated.
type Dimension string

const (
	DimensionHeight Dimension = "height"
	DimensionWidth  Dimension = "width"
)

// DimensionError reports a height or width above the configured maximum.
type DimensionError struct {
	ItemIndex int
	Dimension Dimension
	ValueMM   float64
	LimitMM   float64
	msg       string
}

func newDimensionError(texts catalog.Texts, idx int, dim Dimension, value, limit float64) *DimensionError {
	key := catalog.ErrHeightMax
	if dim == DimensionWidth {
		key = catalog.ErrWidthMax
	}
	return &DimensionError{
		ItemIndex: idx,
		Dimension: dim,
		ValueMM:   value,
		LimitMM:   limit,
		msg:       catalog.Format(texts.Error(key), map[string]string{"max_mm": FormatNumber(limit)}),
	}
}

func (e *DimensionError) Error() string { return e.msg }
func (*DimensionError) RejectsRequest() {}

// UnknownProductError reports a product key absent from the product list.
type UnknownProductError struct {
	ItemIndex  int
	ProductKey string
	msg        string
}

func newUnknownProductError(texts catalog.Texts, idx int, key string) *UnknownProductError {
	return &UnknownProductError{
		ItemIndex:  idx,
		ProductKey: key,
		msg:        catalog.Format(texts.Error(catalog.ErrUnknownProduct), map[string]string{"product_key": key}),
	}
}

func (e *UnknownProductError) Error() string { return e.msg }
func (*UnknownProductError) RejectsRequest() {}

// MissingPriceError reports a product without a material price.
type MissingPriceError struct {
	ItemIndex  int
	ProductKey string
	msg        string
}

func newMissingPriceError(texts catalog.Texts, idx int, key string) *MissingPriceError {
	return &MissingPriceError{
		ItemIndex:  idx,
		ProductKey: key,
		msg:        catalog.Format(texts.Error(catalog.ErrNoMaterialPrice), map[string]string{"product_key": key}),
	}
}

func (e *MissingPriceError) Error() string { return e.msg }
func (*MissingPriceError) RejectsRequest() {}

// MissingDrillPriceError reports drilling requested for a thickness without a price.
type MissingDrillPriceError struct {
	ItemIndex int
	Thickness string
	msg       string
}

func newMissingDrillPriceError(texts catalog.Texts, idx int, thickness string) *MissingDrillPriceError {
	return &MissingDrillPriceError{
		ItemIndex: idx,
		Thickness: thickness,
		msg:       catalog.Format(texts.Error(catalog.ErrNoDrillPrice), map[string]string{"thickness": thickness}),
	}
}

func (e *MissingDrillPriceError) Error() string { return e.msg }
func (*MissingDrillPriceError) RejectsRequest() {}
