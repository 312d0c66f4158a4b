package main

import (
	"errors"
	"os"

	"github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/config"
	"github.com/alnah/go-mdpreview/internal/store"
	"github.com/alnah/go-mdpreview/internal/textenc"
)

// Exit codes for the mdpreview CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, undecodable input
	ExitRender  = 4 // Markdown could not be rendered
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Render errors (exit 4)
	if errors.Is(err, mdpreview.ErrHTMLConversion) ||
		errors.Is(err, mdpreview.ErrPageRender) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, mdpreview.ErrInputTooLarge) ||
		errors.Is(err, mdpreview.ErrImportTooLarge) ||
		errors.Is(err, mdpreview.ErrStateLoad) ||
		errors.Is(err, mdpreview.ErrStateSave) ||
		errors.Is(err, textenc.ErrDecode) ||
		errors.Is(err, store.ErrStateDir) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mdpreview.ErrInvalidFailurePolicy) ||
		errors.Is(err, mdpreview.ErrStyleNotFound) ||
		errors.Is(err, mdpreview.ErrTemplateNotFound) ||
		errors.Is(err, mdpreview.ErrInvalidAssetPath) ||
		errors.Is(err, mdpreview.ErrUnknownEncoding) {
		return ExitUsage
	}

	return ExitGeneral
}
