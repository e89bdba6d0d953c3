package pipeline

import "errors"

// Sentinel errors returned by Session operations. Callers match these with
// errors.Is to decide the transport-level response.
var (
	// ErrNotIngested is returned by Answer when no documents have been
	// processed yet.
	ErrNotIngested = errors.New("documents have not been processed yet")

	// ErrEmptyCorpus is returned by Ingest when no text could be extracted
	// from any of the supplied documents. The session keeps its previous
	// corpus, if any.
	ErrEmptyCorpus = errors.New("no text found in the documents")

	// ErrExtraction is returned by Ingest when a document could not be read.
	ErrExtraction = errors.New("document extraction failed")

	// ErrEmbedding is returned when the embedding backend fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrDownload is returned by IngestURL when the remote document could
	// not be fetched.
	ErrDownload = errors.New("download failed")

	// ErrGeneration is returned by Answer when the generation backend fails.
	// The corpus remains valid for retry.
	ErrGeneration = errors.New("answer generation failed")
)
