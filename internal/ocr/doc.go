// Package ocr reads the text label printed next to a located marker.
//
// Recognition uses the Tesseract engine through gosseract/v2, which needs cgo
// and an installed Tesseract with language data:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//   - Windows: https://github.com/UB-Mannheim/tesseract/wiki
//
// Binaries built without cgo still link; Tesseract.ExtractText then returns
// ErrUnavailable.
//
// # Label strips
//
// LabelRegion computes where a marker's label lives: a strip starting a few
// pixels right of the marker, spanning the marker's rows, clipped to the
// captured frame. ExtractTextFromRegion crops that strip, runs recognition and
// reports word boxes in the coordinates of the source image.
package ocr
