package handler

import (
	"payroll/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags used by request DTOs:
//
//	period  a "YYYY-MM" month label
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
		return model.ValidPeriodLabel(fl.Field().String())
	})
}
