package usecase

import "time"

const (
	// reportCacheTTL bounds how long a closed-period F29 report stays cached.
	reportCacheTTL = 24 * time.Hour

	// stampIdempotencyTTL guards a folio against double emission.
	stampIdempotencyTTL = 24 * time.Hour
)
