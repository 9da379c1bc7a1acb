package service

import (
	"context"
	"io"

	"github.com/ds124wfegd/imagehist/internal/database"
	"github.com/ds124wfegd/imagehist/internal/entity"
	"github.com/ds124wfegd/imagehist/internal/pkg/processor"
)

// EventPublisher is implemented by the kafka producer and the rabbitMQ publisher.
type EventPublisher interface {
	Publish(ctx context.Context, message interface{}) error
}

// Upload is a validated user upload.
type Upload struct {
	Filename string
	Ext      string
	Data     []byte
	Angle    int
}

type AnalysisService interface {
	Analyze(ctx context.Context, id string, upload Upload) (*entity.AnalysisResult, error)
	OpenImage(name string) (io.ReadCloser, error)
	DeleteImage(id string) error
}

type analysisService struct {
	repo      database.ImageRepository
	processor processor.ImageProcessor
	publisher EventPublisher
	urlPrefix string
}

// NewAnalysisService wires the service. publisher may be nil.
func NewAnalysisService(repo database.ImageRepository, processor processor.ImageProcessor, publisher EventPublisher, urlPrefix string) AnalysisService {
	return &analysisService{
		repo:      repo,
		processor: processor,
		publisher: publisher,
		urlPrefix: urlPrefix,
	}
}
