// Package pipeline implements the masking-based Markdown preview pipeline.
//
// A run goes through these stages, in order:
//   - Normalization of line endings
//   - Masking of fenced code, inline code spans and `\$` escapes (Masker)
//   - Extraction of display and inline math (ExtractMath)
//   - Restoration of code before structural parsing (RestoreCode)
//   - Markdown to HTML via goldmark, with math keys as typed AST nodes
//   - Sanitization via bluemonday
//   - Typesetting of math markers into MathML (Resolver)
//
// Every masked region is recorded in a Ledger owned by the run. Keys are
// alphanumeric and chosen so they cannot occur in the source, so no parser
// stage can reinterpret them.
package pipeline
