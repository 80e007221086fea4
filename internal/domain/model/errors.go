package model

import "github.com/rotisserie/eris"

var (
	ErrNotFound        = eris.New("not found")
	ErrInvalidInput    = eris.New("invalid input")
	ErrInvalidPosition = eris.New("invalid position")
	ErrInvalidDate     = eris.New("invalid date")
	ErrStarOutOfRange  = eris.New("home star out of range")
	ErrInvalidOptions  = eris.New("invalid grid options")
	ErrBuildCanceled   = eris.New("overlay build canceled")
	ErrSuperseded      = eris.New("overlay build superseded by a newer request")
)
