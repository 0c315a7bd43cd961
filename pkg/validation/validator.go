package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags and the portal's enum validators.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register applies the portal configuration to v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	// Aliases for common semantics
	v.RegisterAlias("pwd", "min=8,max=72") // bcrypt ignores bytes past 72
	v.RegisterAlias("cgpa", "gte=0,lte=10")
	v.RegisterAlias("phone", "min=7,max=20")

	_ = v.RegisterValidation("branch", func(fl validator.FieldLevel) bool {
		_, ok := entity.ParseBranch(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("jobtype", func(fl validator.FieldLevel) bool {
		return entity.JobType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("jobstatus", func(fl validator.FieldLevel) bool {
		return entity.JobStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("recruitstatus", func(fl validator.FieldLevel) bool {
		return entity.ApplicationStatus(fl.Field().String()).IsRecruiterTarget()
	})
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) {
		return map[string]string{"payload": "invalid json"}
	}
	if errors.As(err, &ute) {
		if ute.Field != "" {
			return map[string]string{ute.Field: "must be a " + ute.Type.String()}
		}
		return map[string]string{"payload": "invalid json"}
	}

	// Validation errors from validator.v10
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fieldPath(fe)] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

// fieldPath drops the root struct name from the namespace, keeping nested
// and indexed fields such as "eligibility.branches[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + param + " is not present"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(kind) {
			return "must be at least " + param
		}
		if kind == reflect.Slice {
			return "must contain at least " + param + " items"
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(kind) {
			return "must be at most " + param
		}
		if kind == reflect.Slice {
			return "must contain at most " + param + " items"
		}
		return "must be at most " + param + " characters long"
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "unique":
		return "must contain unique items"
	case "datetime":
		return "must match datetime format: " + param

	// ===== CUSTOM ALIASES =====
	case "pwd":
		return "must be between 8 and 72 characters long"
	case "cgpa":
		return "must be between 0 and 10"
	case "phone":
		return "must be a valid phone number"
	case "branch":
		return "must be one of: " + joinBranches()
	case "jobtype":
		return "must be one of: Internship, Full-Time"
	case "jobstatus":
		return "must be one of: OPEN, CLOSED, WITHDRAWN"
	case "recruitstatus":
		return "must be one of: SHORTLISTED, SELECTED, REJECTED"

	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func joinBranches() string {
	bs := entity.Branches()
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = string(b)
	}
	return strings.Join(out, ", ")
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
