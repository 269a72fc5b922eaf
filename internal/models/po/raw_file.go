package po

// StoredFile describes a single blob persisted under the storage root.
// The stored filename is generated by the blob store and is never derived
// from user input alone; the original filename is kept only for download
// Content-Disposition purposes.
type StoredFile struct {
	OriginalFilename string `db:"original_filename"`
	StoredFilename   string `db:"stored_filename"`
	ContentType      string `db:"content_type"`
	SizeBytes        int64  `db:"size_bytes"`
	FilePath         string `db:"file_path"`
}
