package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrRender     = errors.New("render failed")
	ErrEncode     = errors.New("response encoding failed")
)
