package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Money leaves the API as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

func newID(id *string) {
	if *id == "" {
		// UUID version 4
		*id = uuid.NewString()
	}
}
