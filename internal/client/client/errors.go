package client

import "errors"

var ErrUnavailable = errors.New("gateway unavailable")
