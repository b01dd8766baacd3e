package embedding

import "context"

// Embedder 文本向量化
type Embedder interface {
	BatchSize() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
