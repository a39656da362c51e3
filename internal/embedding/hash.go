package embedding

import (
	"context"
	"crypto/md5"

	"github.com/maternalab/gravida/internal/domain"
)

// HashClient produces deterministic digest-based vectors without any remote
// model. It has no semantic power and exists for keyless development and
// offline testing; identical text always maps to an identical vector.
type HashClient struct{}

func NewHashClient() *HashClient {
	return &HashClient{}
}

func (c *HashClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, domain.EmbeddingDim)

	// Repeatedly digest the text with a rolling counter byte until the
	// vector is full, scaling each byte to [0,1].
	i := 0
	var counter byte
	for i < len(vec) {
		sum := md5.Sum(append([]byte(text), counter))
		for _, b := range sum {
			if i >= len(vec) {
				break
			}
			vec[i] = float32(b) / 255.0
			i++
		}
		counter++
	}

	return vec, nil
}
