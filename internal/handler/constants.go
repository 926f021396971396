package handler

// Generic HTTP error messages for client responses.
// These messages do not expose internal error details.
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgInvalidOwnerID      = "Invalid owner ID"
	ErrMsgInsufficientStock   = "Not enough producers available"
	ErrMsgCapacityExceeded    = "No free assignment slots"
	ErrMsgInvalidVariantError = "Unknown producer variant"
	ErrMsgInvalidInputError   = "Invalid request. Please check your inputs."
	ErrMsgInvalidLimit        = "Invalid limit"
)

// Log messages
const (
	LogMsgReadinessFailed   = "Readiness check failed"
	LogMsgEncodeFailed      = "Failed to encode JSON response"
	LogMsgWriteFailed       = "Failed to write response buffer"
	LogMsgListAssignedFail  = "Failed to list assigned producers"
	LogMsgCapacityFail      = "Failed to resolve capacity"
	LogMsgOwnerIDValidation = "Owner ID failed validation"
	LogMsgOwnerEventsFail   = "Failed to read owner events"
)

// Health statuses
const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
	HealthMsgStoreFailed    = "store connection failed"
)

// ReadinessTimeoutSeconds bounds the store ping of /readyz
const ReadinessTimeoutSeconds = 2

// URL parameters
const (
	ParamOwnerID = "ownerID"
	ParamLimit   = "limit"
)
