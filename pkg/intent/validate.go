package intent

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/newtron-network/ifcheck/pkg/util"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their YAML names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "ipv4":
		return "must be an IPv4 address"
	case "ipv6":
		return "must be an IPv6 address"
	case "gt":
		return fmt.Sprintf("must be > %s", e.Param())
	case "min":
		return "must not be empty"
	case "numeric":
		return "must be a number"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// fieldPath strips the struct name from a namespace such as
// "Interface.ip6.address".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// Validate checks a single interface.
func (i *Interface) Validate() error {
	var b util.ValidationBuilder
	addFieldErrors(&b, "", i)
	return b.Build()
}

// Validate checks every interface of an intent file. Device names must be
// unique within each list.
func Validate(f *File) error {
	var b util.ValidationBuilder
	for _, kind := range Kinds {
		seen := make(map[string]bool)
		for idx := range f.list(kind) {
			iface := &f.list(kind)[idx]
			prefix := fmt.Sprintf("%s_interfaces[%d]", kind, idx)
			if iface.Device != "" {
				prefix += " (" + iface.Device + ")"
				b.Add(!seen[iface.Device], prefix+": duplicate device")
				seen[iface.Device] = true
			}
			addFieldErrors(&b, prefix+": ", iface)
		}
	}
	if err := b.Build(); err != nil {
		return fmt.Errorf("%w: %w", util.ErrInvalidIntent, err)
	}
	return nil
}

func addFieldErrors(b *util.ValidationBuilder, prefix string, iface *Interface) {
	err := validate.Struct(iface)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		b.AddError(prefix + err.Error())
		return
	}
	for _, fe := range fieldErrs {
		b.AddErrorf("%s%s: %s", prefix, fieldPath(fe), getValidationMessage(fe))
	}
}
