package cfl

// FileEntry holds an accepted file's metadata and content.
type FileEntry struct {
	Path    string // slash-separated, relative to the base directory
	AbsPath string
	Size    int64
	Tokens  int
	Content []byte
}

// Summary holds aggregated information about the accepted files.
type Summary struct {
	TotalFiles  int
	TotalSize   int64
	TotalTokens int
}
