// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/finance-calculator/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateStoreDriver checks if the store driver is supported.
func ValidateStoreDriver(driver string) error {
	if driver != constants.StoreDriverSQLite && driver != constants.StoreDriverMemory {
		return fmt.Errorf("expected store driver of %s or %s, got %s",
			constants.StoreDriverSQLite, constants.StoreDriverMemory, driver)
	}
	return nil
}
