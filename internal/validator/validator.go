// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/zack-schrag/treeline-emergency-fund/internal/engine"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("estimator", validateEstimator)
		_ = v.RegisterValidation("allocation_kind", validateAllocationKind)
	}
}

func validateEstimator(fl validator.FieldLevel) bool {
	return engine.ValidEstimator(engine.Estimator(fl.Field().String()))
}

func validateAllocationKind(fl validator.FieldLevel) bool {
	return engine.ValidAllocationKind(engine.AllocationKind(fl.Field().String()))
}
