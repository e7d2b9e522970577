package handlers

import (
	"errors"
	"net/http"
	"reflect"

	"rent_tracker/internal/ledger"
	"rent_tracker/pkg/utils"
)

func CheckBlankFields(value interface{}) error {
	val := reflect.ValueOf(value)
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Kind() == reflect.String && field.String() == "" {
			return utils.ErrorHandler(errors.New("all fields are required"), "all fields are required")
		}
	}
	return nil
}

// WriteLedgerError maps engine errors onto HTTP status codes. Anything outside
// the engine's sentinel set is a storage failure and stays opaque to clients.
func WriteLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation), errors.Is(err, ledger.ErrNoMembers):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrNotFound):
		utils.WriteError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrForbidden):
		utils.WriteError(w, err.Error(), http.StatusForbidden)
	default:
		utils.Logger.Errorf("ledger operation failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
