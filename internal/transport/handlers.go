package transport

import (
	"time"

	"github.com/ds124wfegd/imagehist/internal/service"
)

// Options carries the config values the HTTP layer needs.
type Options struct {
	MaxBytes    int64
	AllowedExt  []string
	Timeout     time.Duration
	AppVersion  string
	Environment string
	EventDriver string
}

type ImageHandler struct {
	service service.AnalysisService
	opts    Options
}

func NewImageHandler(service service.AnalysisService, opts Options) *ImageHandler {
	return &ImageHandler{service: service, opts: opts}
}
