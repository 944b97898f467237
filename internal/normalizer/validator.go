package normalizer

import (
	"fmt"

	"github.com/tidwall/gjson"

	"yongpei/internal/failure"
)

// Validation errors. All of them wrap failure.ErrDecode.
var (
	ErrMalformedCatalog = fmt.Errorf("%w: malformed catalog", failure.ErrDecode)
	ErrInvalidJSON      = fmt.Errorf("%w: catalog is not valid JSON", ErrMalformedCatalog)
	ErrRootNotObject    = fmt.Errorf("%w: root must be an object of category name to product list", ErrMalformedCatalog)
	ErrCategoryNotList  = fmt.Errorf("%w: category value must be an array", ErrMalformedCatalog)
	ErrRecordNotObject  = fmt.Errorf("%w: product record must be an object", ErrMalformedCatalog)
)

// Validator checks the shape of a raw vendor catalog.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks that raw is an object mapping category names to arrays of
// product objects. Field contents are not checked.
func (v *Validator) Validate(raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return ErrInvalidJSON
	}

	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return ErrRootNotObject
	}

	var err error

	root.ForEach(func(name, records gjson.Result) bool {
		if !records.IsArray() {
			err = fmt.Errorf("%w: %q", ErrCategoryNotList, name.String())

			return false
		}

		index := 0

		records.ForEach(func(_, record gjson.Result) bool {
			if !record.IsObject() {
				err = fmt.Errorf("%w: %q[%d]", ErrRecordNotObject, name.String(), index)

				return false
			}

			index++

			return true
		})

		return err == nil
	})

	return err
}
