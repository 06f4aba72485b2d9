package domain

// Metadata keys that the registry maintains on every document.
const (
	// MetaContentHash is the deduplication digest of the document text.
	MetaContentHash = "content_hash"

	// MetaOriginalFilename is the name the document was ingested under.
	MetaOriginalFilename = "original_filename"

	// MetaChunks is the number of chunks derived from the document.
	MetaChunks = "chunks"
)

// Document is the canonical representation of an indexed record.
// Whole papers, chunks, captured search results, and author profiles
// are all stored in the same collection as Documents.
type Document struct {
	// ID is the unique identifier within the collection.
	ID string

	// Text is the full content. It is immutable after creation;
	// only metadata may be patched.
	Text string

	// Metadata contains arbitrary key-value pairs. The registry always
	// maintains MetaContentHash and MetaOriginalFilename; callers may
	// add further keys via merge-patch.
	Metadata map[string]any
}

// ContentHash returns the deduplication digest recorded in metadata,
// or the empty string if none is present.
func (d *Document) ContentHash() string {
	if d.Metadata == nil {
		return ""
	}
	hash, _ := d.Metadata[MetaContentHash].(string)
	return hash
}

// Chunk is a bounded, overlapping slice of a parent document.
// Its ID is derived deterministically as "{parent}_{index}" so that
// re-ingesting the same document reproduces the same id space.
type Chunk struct {
	// ID is "{parent}_{index}".
	ID string

	// Text is the chunk content.
	Text string

	// Index is the ordinal position within the parent document.
	Index int

	// Metadata inherits the parent document's metadata.
	Metadata map[string]any
}
