package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"shuddhneer/internal/domain"
)

var validatorsOnce sync.Once

// registerValidators hooks custom tags into gin's shared validator. It panics
// at startup when the tags cannot be installed.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic(fmt.Sprintf("httpapi: unexpected binding engine %T", binding.Validator.Engine()))
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if tag == "" || tag == "-" {
				return f.Name
			}
			return tag
		})
		if err := v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
			return domain.OrderStatus(fl.Field().String()).IsValid()
		}); err != nil {
			panic(fmt.Errorf("httpapi: register order_status: %w", err))
		}
	})
}

func validationResponse(err error) gin.H {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return gin.H{"error": "invalid json"}
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = validationMessage(fe)
	}
	return gin.H{"error": "validation failed", "details": details}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "order_status":
		return "must be one of Pending, Confirmed, Dispatched, Delivered, Cancelled"
	}
	return "is invalid"
}
