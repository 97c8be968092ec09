package constants

import "github.com/go-playground/validator/v10"

// Validate is the shared validator instance used by DTO Ok() checks.
var Validate = validator.New()
