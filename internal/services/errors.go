package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error taxonomy shared by all services. Handlers translate these into HTTP
// responses; nothing below the handler layer knows about status codes.
var (
	ErrNotFound  = errors.New("registro não encontrado")
	ErrConflict  = errors.New("conflito com registro existente")
	ErrForbidden = errors.New("operação não permitida")
	ErrThrottled = errors.New("muitas tentativas, aguarde um minuto")
	// ErrSpamRejected carries a deliberately generic message so automated
	// clients cannot tell which check tripped.
	ErrSpamRejected = errors.New("envio inválido")
	ErrUpstream     = errors.New("falha ao acessar o serviço de dados")
)

// ValidationError reports out-of-bounds input with field-level detail.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "dados inválidos"
	}
	return "dados inválidos: " + strings.Join(e.Fields, ", ")
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = validator.New()

// checkStruct runs tag validation and converts failures into a
// ValidationError with readable per-field messages.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return &ValidationError{}
	}
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fieldError(fe))
	}
	return &ValidationError{Fields: fields}
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " é obrigatório"
	case "email":
		return field + " deve ser um email válido"
	case "url":
		return field + " deve ser uma URL válida"
	case "min":
		return fmt.Sprintf("%s deve ter no mínimo %s caracteres", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s caracteres", field, fe.Param())
	default:
		return fmt.Sprintf("%s inválido (%s)", field, fe.Tag())
	}
}

// upstream wraps a storage failure so callers can match it with errors.Is
// while the underlying driver error stays in the chain for server-side logs.
func upstream(err error) error {
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
