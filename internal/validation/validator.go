package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"alumnet/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the shared validator, registering the custom tags on
// first use:
//
//	role      a known account role (DPU_STAFF accepted)
//	password  the password policy of ValidatePassword
//	rsvp      GOING, MAYBE or NOT_GOING
//	jobcat    a known job category
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report JSON field names rather than Go field names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		mustRegister("role", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseRole(fl.Field().String())
			return ok
		})
		mustRegister("password", func(fl validator.FieldLevel) bool {
			return ValidatePassword(fl.Field().String()) == nil
		})
		mustRegister("rsvp", func(fl validator.FieldLevel) bool {
			return models.RSVPStatus(strings.ToUpper(fl.Field().String())).Valid()
		})
		mustRegister("jobcat", func(fl validator.FieldLevel) bool {
			v := models.JobCategory(strings.ToUpper(fl.Field().String()))
			for _, c := range models.JobCategories {
				if c == v {
					return true
				}
			}
			return false
		})
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validator %q: %v", tag, err))
	}
}

// Struct validates s and returns an InvalidArgument AppError describing the
// first failing field, or nil.
func Struct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return models.NewValidationError(err.Error())
	}

	fe := fieldErrs[0]
	if fe.Tag() == "password" {
		if perr := ValidatePassword(fmt.Sprint(fe.Value())); perr != nil {
			return models.NewValidationError(perr.Error())
		}
	}
	return models.NewValidationError(translateError(fe))
}

var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"url":      "%s must be a valid URL",
	"role":     "%s must be one of STUDENT, ALUMNI, TEACHER, ADMIN, STAFF",
	"rsvp":     "%s must be one of GOING, MAYBE, NOT_GOING",
	"jobcat":   "%s is not a known job category",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	isString := fe.Kind() == reflect.String
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
