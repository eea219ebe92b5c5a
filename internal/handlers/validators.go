package handlers

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/agency-project-tracker/internal/models"
	"github.com/yukikurage/agency-project-tracker/internal/utils"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request structs:
// project_status accepts the five workflow statuses, date accepts YYYY-MM-DD or RFC 3339.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("project_status", validateProjectStatus); err != nil {
			return
		}
		err = v.RegisterValidation("date", validateDate)
	})
	return err
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	return models.ProjectStatus(fl.Field().String()).Valid()
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := utils.ParseDate(fl.Field().String())
	return err == nil
}
