package carousel

import "errors"

var (
	ErrNoHost      = errors.New("carousel: host is required")
	ErrNoCurves    = errors.New("carousel: curves are required")
	ErrNotBuilt    = errors.New("carousel: slot pool is empty, call Rebuild first")
	ErrUnknownSlot = errors.New("carousel: handle does not belong to this view")
)
