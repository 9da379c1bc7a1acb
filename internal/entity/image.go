package entity

import "time"

// ImageInfo describes one stored image.
type ImageInfo struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Layout string `json:"layout"`
	Format string `json:"format"`
}

type ChannelStats struct {
	Channel string  `json:"channel"`
	Pixels  int     `json:"pixels"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Median  float64 `json:"median"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
}

type Histogram struct {
	Channel string `json:"channel"`
	Bins    []int  `json:"bins"`
}

// HistogramReport is a rendered chart plus the data it was drawn from.
type HistogramReport struct {
	ChartBase64 string         `json:"chart_base64"`
	MimeType    string         `json:"mime_type"`
	Channels    []Histogram    `json:"channels"`
	Stats       []ChannelStats `json:"stats"`
}

type AnalysisResult struct {
	ID                string          `json:"id"`
	OriginalFilename  string          `json:"original_filename"`
	Angle             int             `json:"angle"`
	Original          ImageInfo       `json:"original"`
	Rotated           ImageInfo       `json:"rotated"`
	OriginalHistogram HistogramReport `json:"original_histogram"`
	RotatedHistogram  HistogramReport `json:"rotated_histogram"`
}

// AnalysisEvent is published after an upload has been processed.
type AnalysisEvent struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Angle       int       `json:"angle"`
	Layout      string    `json:"layout"`
	OriginalURL string    `json:"original_url"`
	RotatedURL  string    `json:"rotated_url"`
	ProcessedAt time.Time `json:"processed_at"`
}
