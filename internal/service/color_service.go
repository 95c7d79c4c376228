// Package service composes decoding and analysis for the outer transports.
package service

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/colorscope/colorscope/internal/analyzer"
	"github.com/colorscope/colorscope/internal/imaging"
	"github.com/sirupsen/logrus"
)

// AllowedExtensions lists the upload file extensions the service accepts.
var AllowedExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".webp"}

var (
	ErrNoFile          = errors.New("no file selected")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("empty file")
)

// ColorService runs the decode and analyze pipeline for one payload per call.
// It holds no per-request state and is safe for concurrent use.
type ColorService struct {
	defaultROI int
	log        *logrus.Logger
}

func NewColorService(defaultROI int, log *logrus.Logger) *ColorService {
	return &ColorService{defaultROI: defaultROI, log: log}
}

// DefaultROI returns the ROI half width used when a request does not set one.
func (s *ColorService) DefaultROI() int {
	return s.defaultROI
}

// AnalyzeFrame analyzes a camera frame sent as a data URL or bare base64.
func (s *ColorService) AnalyzeFrame(dataURL string, roi int) (analyzer.ColorResult, error) {
	start := time.Now()
	grid, err := imaging.DecodeDataURL(dataURL)
	if err != nil {
		return analyzer.ColorResult{}, err
	}
	return s.analyze(grid, roi, "frame", start)
}

// AnalyzeUpload validates an uploaded file's name and size, then analyzes
// its bytes.
func (s *ColorService) AnalyzeUpload(filename string, data []byte, roi int) (analyzer.ColorResult, error) {
	start := time.Now()
	if err := CheckUpload(filename, int64(len(data))); err != nil {
		return analyzer.ColorResult{}, err
	}
	grid, err := imaging.DecodeImage(data)
	if err != nil {
		return analyzer.ColorResult{}, err
	}
	return s.analyze(grid, roi, "upload", start)
}

// AnalyzeGrid analyzes an already decoded grid.
func (s *ColorService) AnalyzeGrid(grid *imaging.PixelGrid, roi int) (analyzer.ColorResult, error) {
	return s.analyze(grid, roi, "grid", time.Now())
}

func (s *ColorService) analyze(grid *imaging.PixelGrid, roi int, source string, start time.Time) (analyzer.ColorResult, error) {
	result, err := analyzer.AnalyzeColor(grid, roi)
	if err != nil {
		return analyzer.ColorResult{}, err
	}
	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"source":     source,
			"width":      grid.Width,
			"height":     grid.Height,
			"roi":        roi,
			"color":      result.Name,
			"hex":        result.Hex,
			"elapsed_ms": time.Since(start).Milliseconds(),
		}).Debug("Color analyzed")
	}
	return result, nil
}

// CheckUpload applies the upload rules in order: a file name must be present,
// its extension must be allowed (case-insensitive), and the file must not be
// empty.
func CheckUpload(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return ErrNoFile
	}
	if !AllowedExtension(filename) {
		return ErrUnsupportedType
	}
	if size <= 0 {
		return ErrEmptyFile
	}
	return nil
}

// AllowedExtension reports whether filename ends in one of AllowedExtensions.
func AllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// IsClientError reports whether err was caused by the caller's input rather
// than by the service.
func IsClientError(err error) bool {
	var de *imaging.DecodeError
	var ae *analyzer.AnalysisError
	return errors.As(err, &de) || errors.As(err, &ae) ||
		errors.Is(err, ErrNoFile) || errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrEmptyFile)
}
