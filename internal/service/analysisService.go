package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ds124wfegd/imagehist/internal/database"
	"github.com/ds124wfegd/imagehist/internal/entity"
	"github.com/ds124wfegd/imagehist/internal/pkg/processor"
	"github.com/sirupsen/logrus"
)

// Analyze runs the image through the processor and stores the original and
// rotated files only when every step succeeded.
func (s *analysisService) Analyze(ctx context.Context, id string, upload Upload) (*entity.AnalysisResult, error) {
	if len(upload.Data) == 0 {
		return nil, entity.ErrEmptyFile
	}

	res, err := s.processor.Analyze(ctx, upload.Data, upload.Angle)
	if err != nil {
		return nil, err
	}

	originalName, err := s.repo.SaveFile(id, database.KindOriginal, upload.Ext, bytes.NewReader(upload.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to save original: %w", err)
	}

	rotatedExt := processor.Extension(res.RotatedFormat)
	rotatedName, err := s.repo.SaveFile(id, database.KindRotated, rotatedExt, bytes.NewReader(res.RotatedData))
	if err != nil {
		// Удаляем оригинал, чтобы не оставлять половину результата
		if delErr := s.repo.Delete(id); delErr != nil {
			logrus.WithField("id", id).Errorf("cleanup after failed save: %v", delErr)
		}
		return nil, fmt.Errorf("failed to save rotated image: %w", err)
	}

	result := &entity.AnalysisResult{
		ID:               id,
		OriginalFilename: upload.Filename,
		Angle:            upload.Angle,
		Original: entity.ImageInfo{
			Name:   originalName,
			URL:    s.urlPrefix + originalName,
			Width:  res.Original.Width(),
			Height: res.Original.Height(),
			Layout: res.Original.Layout().String(),
			Format: res.Original.Format(),
		},
		Rotated: entity.ImageInfo{
			Name:   rotatedName,
			URL:    s.urlPrefix + rotatedName,
			Width:  res.Rotated.Width(),
			Height: res.Rotated.Height(),
			Layout: res.Rotated.Layout().String(),
			Format: res.RotatedFormat,
		},
		OriginalHistogram: toReport(res.OriginalChart, res.OriginalHist),
		RotatedHistogram:  toReport(res.RotatedChart, res.RotatedHist),
	}

	logrus.WithFields(logrus.Fields{
		"id":     id,
		"angle":  upload.Angle,
		"layout": result.Original.Layout,
		"size":   fmt.Sprintf("%dx%d", result.Original.Width, result.Original.Height),
	}).Info("image analyzed")

	s.publish(ctx, result)
	return result, nil
}

func (s *analysisService) OpenImage(name string) (io.ReadCloser, error) {
	return s.repo.Open(name)
}

func (s *analysisService) DeleteImage(id string) error {
	return s.repo.Delete(id)
}

// publish is best effort: the result is already stored.
func (s *analysisService) publish(ctx context.Context, result *entity.AnalysisResult) {
	if s.publisher == nil {
		return
	}

	event := entity.AnalysisEvent{
		ID:          result.ID,
		Filename:    result.OriginalFilename,
		Angle:       result.Angle,
		Layout:      result.Original.Layout,
		OriginalURL: result.Original.URL,
		RotatedURL:  result.Rotated.URL,
		ProcessedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logrus.WithField("id", result.ID).Warnf("failed to publish analysis event: %v", err)
	}
}

func toReport(chart *processor.Chart, hists []processor.ChannelHistogram) entity.HistogramReport {
	report := entity.HistogramReport{
		ChartBase64: chart.Base64(),
		MimeType:    "image/png",
		Channels:    make([]entity.Histogram, 0, len(hists)),
		Stats:       make([]entity.ChannelStats, 0, len(hists)),
	}
	for i := range hists {
		h := &hists[i]
		report.Channels = append(report.Channels, entity.Histogram{
			Channel: h.Channel,
			Bins:    append([]int(nil), h.Bins[:]...),
		})

		st := h.Stats()
		report.Stats = append(report.Stats, entity.ChannelStats{
			Channel: st.Channel,
			Pixels:  st.Pixels,
			Mean:    st.Mean,
			StdDev:  st.StdDev,
			Median:  st.Median,
			Min:     st.Min,
			Max:     st.Max,
		})
	}
	return report
}
