package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrCompletion wraps every failed completion call. It is recoverable per request.
var ErrCompletion = errors.New("completion failed")

// ErrUnknownModel is returned for a model id outside Models.
var ErrUnknownModel = errors.New("unknown model")
