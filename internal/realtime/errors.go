package realtime

import "errors"

var ErrMalformedFrame = errors.New("malformed frame")
