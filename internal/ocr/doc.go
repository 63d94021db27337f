// Package ocr provides optical character recognition for the bulk-create
// pipeline. It supports a local tesseract installation and the Google
// Cloud Vision API behind a common provider interface.
package ocr
