package chunker

import "github.com/akolanti/StudyRAG/internal/domain/commonModels"

const (
	smallChunkLimit = 500
	largeChunkLimit = 1000
)

func Stats(chunks []commonModels.Chunk, strategy string) commonModels.ChunkingStats {
	stats := commonModels.ChunkingStats{
		Strategy:    strategy,
		TotalChunks: len(chunks),
	}
	if len(chunks) == 0 {
		return stats
	}

	stats.MinChunkSize = chunks[0].EndOffset - chunks[0].StartOffset
	for _, ch := range chunks {
		size := ch.EndOffset - ch.StartOffset
		stats.TotalCharacters += size
		stats.MinChunkSize = min(stats.MinChunkSize, size)
		stats.MaxChunkSize = max(stats.MaxChunkSize, size)

		switch {
		case size < smallChunkLimit:
			stats.SizeDistribution.Small++
		case size <= largeChunkLimit:
			stats.SizeDistribution.Medium++
		default:
			stats.SizeDistribution.Large++
		}
	}
	stats.AverageChunkSize = float64(stats.TotalCharacters) / float64(len(chunks))
	return stats
}
