package controllers

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/zaqqye/eduapp_backend/internal/utils"
)

// RegisterValidators adds the custom binding tags used by request structs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("accesscode", func(fl validator.FieldLevel) bool {
		return utils.IsAccessCode(strings.TrimSpace(fl.Field().String()))
	})
}
