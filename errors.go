package mdpreview

import (
	"errors"

	"github.com/alnah/go-mdpreview/internal/assets"
	"github.com/alnah/go-mdpreview/internal/pipeline"
	"github.com/alnah/go-mdpreview/internal/textenc"
)

// Sentinel errors for library operations.
var (
	ErrHTMLConversion       = pipeline.ErrHTMLConversion
	ErrInputTooLarge        = errors.New("markdown content too large")
	ErrInvalidFailurePolicy = errors.New("invalid failure policy")
	ErrPageRender           = errors.New("page template rendering failed")

	// Asset loading errors.
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrTemplateNotFound = assets.ErrTemplateNotFound
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Import and export errors.
	ErrUnknownEncoding = textenc.ErrUnknownEncoding
	ErrImportTooLarge  = errors.New("imported file too large")

	// Persisted state errors.
	ErrStateLoad = errors.New("failed to load saved content")
	ErrStateSave = errors.New("failed to save content")
)
