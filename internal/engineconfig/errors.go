package engineconfig

import "errors"

var (
	ErrMissingComponentBasePath = errors.New("invalid config: component base path is required")
	ErrInvalidExecutionTime     = errors.New("invalid max execution time: must be non-negative")
	ErrInvalidQueueCapacity     = errors.New("invalid queue capacity: must be non-negative")
)
