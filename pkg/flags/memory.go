package flags

import (
	"github.com/philippgille/chromem-go"
	"github.com/spf13/pflag"
)

// MemoryFlags configures the long-term memory vector index.
type MemoryFlags struct {
	Path           string
	EmbeddingModel string
}

func NewMemoryFlags() *MemoryFlags {
	return &MemoryFlags{
		EmbeddingModel: "text-embedding-3-small",
	}
}

func (f *MemoryFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Path, "memory-path", f.Path, "Directory for the persistent memory index (in-memory when unset)")
	fs.StringVar(&f.EmbeddingModel, "embedding-model", f.EmbeddingModel, "The model used to embed memory entries")
}

// GetVectorDB opens the vector index, persistent when a path was given.
func (f *MemoryFlags) GetVectorDB() (*chromem.DB, error) {
	if f.Path != "" {
		return chromem.NewPersistentDB(f.Path, false)
	}

	return chromem.NewDB(), nil
}
