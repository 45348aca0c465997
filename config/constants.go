package config

const (
	// DefaultBatchSize is the number of records a block must hold before activation
	DefaultBatchSize = 2

	// DefaultApprovalThreshold is the fraction of registered validators whose
	// same-direction vote commits or rejects a block
	DefaultApprovalThreshold = 0.66
)
