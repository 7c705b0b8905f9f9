// Package services holds thin use-case orchestrators between the HTTP
// handlers and the store. Input validation that needs domain context (not
// just field shape) lives here and surfaces model.ErrValidation.
package services

import (
	"fmt"

	"github.com/keepsakehq/keepsake/server/internal/model"
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, model.ErrValidation)...)
}
