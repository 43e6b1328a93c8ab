package model

import "errors"

var (
	ErrEmptyScoreSet        = errors.New("no crops were scored")
	ErrInvalidCropName      = errors.New("invalid crop name")
	ErrDuplicateCrop        = errors.New("duplicate crop in classifier output")
	ErrInvalidProbabilities = errors.New("invalid classifier probabilities")
	ErrRegionRequired       = errors.New("region is required")
	ErrRegionNotFound       = errors.New("region not found")
)
