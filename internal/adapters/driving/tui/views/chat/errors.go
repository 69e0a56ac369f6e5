package chat

import "errors"

// ErrNoAnswerer is reported when the view has no answer service.
var ErrNoAnswerer = errors.New("answer service not configured")
