package validator

import (
	"log"

	"jobportal_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules adds the enum tags used by request DTOs. Empty values
// pass; "required" is responsible for those.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", enumRule(func(s string) bool { return models.UserRole(s).Valid() }))
	mustRegister("is-application-status", enumRule(func(s string) bool { return models.ApplicationStatus(s).Valid() }))
	mustRegister("is-job-type", enumRule(func(s string) bool { return models.JobType(s).Valid() }))
	mustRegister("is-experience-level", enumRule(func(s string) bool { return models.ExperienceLevel(s).Valid() }))
	mustRegister("is-company-size", enumRule(func(s string) bool { return models.CompanySize(s).Valid() }))
}

func enumRule(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return valid(value)
	}
}
