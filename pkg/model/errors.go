package model

import (
	"github.com/pkg/errors"
)

var (
	// ErrInputInvalid indicates the request carried no URL-like text at all.
	ErrInputInvalid = errors.New("no link found in input")
	// ErrIdentifierNotFound indicates redirect chasing exhausted without a video id.
	ErrIdentifierNotFound = errors.New("video id not found")
	// ErrAllStrategiesFailed indicates every extraction strategy came up empty
	// and the demo placeholder policy is disabled.
	ErrAllStrategiesFailed = errors.New("all extraction strategies failed")
)
