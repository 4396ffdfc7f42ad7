package documents

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	ContentTypePDF  = "application/pdf"
	DefaultMaxBytes = 10 << 20
)

// ErrInvalidInput is wrapped by every rejection from Validator.
var ErrInvalidInput = errors.New("invalid document")

// ValidationError describes the first rule an upload failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Validator checks uploaded PDFs against size, content type and file name
// rules. The declared content type must equal ContentTypePDF exactly. It
// performs no I/O.
type Validator struct {
	maxBytes int64
}

// NewValidator returns a Validator accepting files up to maxBytes.
// A non-positive value selects DefaultMaxBytes.
func NewValidator(maxBytes int64) *Validator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Validator{maxBytes: maxBytes}
}

// MaxBytes returns the configured size limit.
func (v *Validator) MaxBytes() int64 {
	return v.maxBytes
}

// Validate applies the rules in order and reports the first failure.
func (v *Validator) Validate(size int64, contentType, fileName string) error {
	checks := []struct {
		field string
		value any
		rules []validation.Rule
	}{
		{
			field: "size",
			value: size,
			rules: []validation.Rule{
				validation.Required.Error("file is empty"),
				validation.Min(int64(1)).Error("file is empty"),
				validation.Max(v.maxBytes).Error(fmt.Sprintf("file size exceeds maximum limit (%s)", formatLimit(v.maxBytes))),
			},
		},
		{
			field: "contentType",
			value: contentType,
			rules: []validation.Rule{
				validation.Required.Error("only PDF files are allowed"),
				validation.In(ContentTypePDF).Error("only PDF files are allowed"),
			},
		},
		{
			field: "fileName",
			value: fileName,
			rules: []validation.Rule{
				validation.By(hasPDFExtension),
			},
		},
	}

	for _, check := range checks {
		if err := validation.Validate(check.value, check.rules...); err != nil {
			return &ValidationError{Field: check.field, Message: err.Error()}
		}
	}
	return nil
}

func hasPDFExtension(value any) error {
	name, _ := value.(string)
	if !strings.HasSuffix(strings.ToLower(strings.TrimSpace(name)), ".pdf") {
		return errors.New("file must have .pdf extension")
	}
	return nil
}

func formatLimit(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
