package common

const (
	InvoiceStatePending   = "pending"
	InvoiceStateSettled   = "settled"
	InvoiceStateCancelled = "cancelled"

	// LNURL wire-level status strings (LUD-06)
	StatusOK    = "OK"
	StatusError = "ERROR"
)
