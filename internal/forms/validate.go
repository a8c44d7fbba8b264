package forms

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
)

var (
	decoder  = newDecoder()
	validate = newValidator()

	usernameRX = regexp.MustCompile(`^[\w.@+-]+$`)
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.RegisterConverter(false, convertCheckbox)
	return d
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("schema"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("username", func(fl validator.FieldLevel) bool {
		return usernameRX.MatchString(fl.Field().String())
	})
	must("notnumeric", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || strings.TrimLeft(s, "0123456789") != ""
	})
	must("number", func(fl validator.FieldLevel) bool {
		_, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil
	})
	must("maxdigits", decimalRule(func(d decimal.Decimal, limit int) bool {
		total, _ := digits(d)
		return total <= limit
	}))
	must("places", decimalRule(func(d decimal.Decimal, limit int) bool {
		_, places := digits(d)
		return places <= limit
	}))
	must("wholedigits", decimalRule(func(d decimal.Decimal, limit int) bool {
		total, places := digits(d)
		return total-places <= limit
	}))
	must("nonnegative", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err != nil || d.Sign() >= 0
	})
	return v
}

// decimalRule adapts a check on a parsed decimal and an integer tag param.
// Unparseable values pass; the "number" rule reports them.
func decimalRule(check func(d decimal.Decimal, limit int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		if err != nil {
			return true
		}
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return check(d, limit)
	}
}

// preparer lets a form trim or default its values before validation.
type preparer interface {
	prepare()
}

// Bind decodes values into dst and validates it. It returns the field errors;
// an empty result means dst holds a valid submission.
func Bind(values url.Values, dst interface{}) Errors {
	errs := Errors{}

	if err := decoder.Decode(dst, values); err != nil {
		var multi schema.MultiError
		if !errors.As(err, &multi) {
			errs.Add(NonFieldErrors, err.Error())
			return errs
		}
		for field := range multi {
			errs.Add(field, "Enter a valid value.")
		}
	}

	if p, ok := dst.(preparer); ok {
		p.prepare()
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.Add(NonFieldErrors, err.Error())
			return errs
		}
		for _, fe := range verrs {
			if _, seen := errs[fe.Field()]; seen {
				continue
			}
			errs.Add(fe.Field(), message(fe))
		}
	}
	return errs
}

var fieldMessages = map[string]string{
	"username.username":    "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.",
	"password1.min":        "This password is too short. It must contain at least 8 characters.",
	"password1.notnumeric": "This password is entirely numeric.",
	"password2.eqfield":    "The two password fields didn't match.",
}

func message(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), len([]rune(fmt.Sprint(fe.Value()))))
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters (it has %d).", fe.Param(), len([]rune(fmt.Sprint(fe.Value()))))
	case "oneof":
		return fmt.Sprintf("Select a valid choice. %v is not one of the available choices.", fe.Value())
	case "number":
		return "Enter a number."
	case "maxdigits":
		return fmt.Sprintf("Ensure that there are no more than %s digits in total.", fe.Param())
	case "places":
		return fmt.Sprintf("Ensure that there are no more than %s decimal places.", fe.Param())
	case "wholedigits":
		return fmt.Sprintf("Ensure that there are no more than %s digits before the decimal point.", fe.Param())
	case "nonnegative":
		return "Ensure this value is greater than or equal to 0."
	}
	return "Enter a valid value."
}
