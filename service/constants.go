package service

const (
	MaxAmount       = 100_000_000.0 // 100 millones, por campo monetario
	MaxInterestRate = 1000.0        // 1000% anual
	MaxTaxRate      = 100.0
	MaxTermMonths   = 600 // 50 años
	MinTermMonths   = 1

	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500

	overviewCacheKeyPrefix = "car_deal_overview:"
)
