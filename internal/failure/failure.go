// Package failure defines the error kinds shared by every stage of a site build.
package failure

import (
	"context"
	"errors"
)

// Error kinds. Stage errors wrap exactly one of these.
var (
	ErrFetch      = errors.New("fetch failure")
	ErrDecode     = errors.New("decode failure")
	ErrFilesystem = errors.New("filesystem failure")
	ErrTemplate   = errors.New("template failure")
)

// Kind labels used in reports and metrics.
const (
	KindFetch      = "fetch"
	KindDecode     = "decode"
	KindFilesystem = "filesystem"
	KindTemplate   = "template"
	KindCanceled   = "canceled"
	KindOther      = "other"
)

// Kind classifies err into one of the Kind labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, ErrFetch):
		return KindFetch
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrFilesystem):
		return KindFilesystem
	case errors.Is(err, ErrTemplate):
		return KindTemplate
	}

	return KindOther
}
