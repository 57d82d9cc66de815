package api

import "github.com/genomics-tools/bindex/internal/bgzf"

// ChunkRange is one byte range of the data file.  Start and End are BGZF
// virtual addresses in the hexadecimal form bgzf.ParseAddress accepts.
type ChunkRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ChunksResponse is the body returned by the chunk resolution endpoints.
type ChunksResponse struct {
	Chunks []ChunkRange `json:"chunks"`
}

// NewChunksResponse converts chunks into their wire representation.
func NewChunksResponse(chunks []bgzf.Chunk) ChunksResponse {
	response := ChunksResponse{Chunks: make([]ChunkRange, len(chunks))}
	for i, chunk := range chunks {
		response.Chunks[i] = ChunkRange{
			Start: chunk.Start.String(),
			End:   chunk.End.String(),
		}
	}
	return response
}
