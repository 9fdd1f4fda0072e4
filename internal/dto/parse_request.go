package dto

type ParseRequest struct {
	Content   string `json:"content" binding:"required"`
	FilePath  string `json:"file_path,omitempty"`
	Plugin    string `json:"plugin,omitempty"`
	ChunkSize int    `json:"chunk_size,omitempty"`
}
