// Package bulk drives the bulk card creation pipeline: it scans a
// directory of images, runs OCR on each file, optionally asks a language
// model to draft a question/answer pair, and queues the results for human
// review. Items only become cards when the user accepts them, so the whole
// queue is in-memory state that disappears when the session stops.
package bulk
