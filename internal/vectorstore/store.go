package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/concertbot/concertbot/internal/embeddings"
)

const collectionName = "concerts"

// markerFile is the single persisted artifact inside the index directory.
// Its presence is what Exists checks for.
const markerFile = "index.gob.gz"

// Write locks are held per index location, not per Store value, so two
// stores bound to the same directory within one process still serialize
// their load -> add -> save sequences.
var (
	dirLocksMu sync.Mutex
	dirLocks   = map[string]*sync.Mutex{}
)

func lockFor(dir string) *sync.Mutex {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	dirLocksMu.Lock()
	defer dirLocksMu.Unlock()
	if mu, ok := dirLocks[dir]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	dirLocks[dir] = mu
	return mu
}

// Store manages a persisted vector index at one directory location.
// Persistence is whole-file: Load reads everything, Save rewrites everything.
// The location's mutex serializes the load -> add -> save sequence so that
// two concurrent ingestions against the same location cannot lose updates.
type Store struct {
	dir       string
	embedFunc chromem.EmbeddingFunc

	mu *sync.Mutex
}

// New creates a Store bound to the given index directory.
func New(embedder embeddings.Embedder, dir string) *Store {
	return &Store{
		dir:       dir,
		embedFunc: embeddings.ToChromemFunc(embedder),
		mu:        lockFor(dir),
	}
}

// Dir returns the index directory location.
func (s *Store) Dir() string { return s.dir }

// Exists reports whether a previously persisted index is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(filepath.Join(s.dir, markerFile))
	return err == nil
}

// Load reads the persisted index. It fails if the location is absent or
// does not hold a loadable index.
func (s *Store) Load(ctx context.Context) (*Index, error) {
	db := chromem.NewDB()
	if err := db.ImportFromFile(filepath.Join(s.dir, markerFile), ""); err != nil {
		return nil, fmt.Errorf("import index from %s: %w", s.dir, err)
	}

	col := db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return nil, fmt.Errorf("collection %q not found in index at %s", collectionName, s.dir)
	}

	return &Index{db: db, col: col, dir: s.dir}, nil
}

// Create builds a fresh in-memory index from a non-empty initial batch.
// An index with zero records is not representable.
func (s *Store) Create(ctx context.Context, records []Record) (*Index, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("creating an index requires at least one record")
	}

	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, s.embedFunc)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	ix := &Index{db: db, col: col, dir: s.dir}
	for _, rec := range records {
		if err := ix.Add(ctx, rec.Text, rec.Meta); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Append runs the full serialized upsert sequence: load the index if one is
// persisted, otherwise create a fresh one from this single record, then add
// and save. Failure to save leaves the on-disk index untouched and the
// in-memory state discarded.
func (s *Store) Append(ctx context.Context, text string, meta Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		ix  *Index
		err error
	)
	if s.Exists() {
		ix, err = s.Load(ctx)
		if err != nil {
			return err
		}
		if err := ix.Add(ctx, text, meta); err != nil {
			return err
		}
	} else {
		ix, err = s.Create(ctx, []Record{{Text: text, Meta: meta}})
		if err != nil {
			return err
		}
	}

	return ix.Save()
}

// Retrieve loads the index and searches it. An absent store is not an
// error: it returns no results, and the caller decides what that means.
func (s *Store) Retrieve(ctx context.Context, query string, k int, threshold float32) ([]SearchResult, error) {
	if !s.Exists() {
		return nil, nil
	}

	ix, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	return ix.Search(ctx, query, k, threshold)
}

// Index is a loaded (or freshly created) vector index. It is append-only:
// records are never updated or deleted.
type Index struct {
	db  *chromem.DB
	col *chromem.Collection
	dir string
}

// Add appends one record. No deduplication is performed: adding identical
// text twice produces two records.
func (ix *Index) Add(ctx context.Context, text string, meta Metadata) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("refusing to index a record with empty text")
	}

	doc := chromem.Document{
		ID:       uuid.New().String(),
		Content:  text,
		Metadata: metadataToMap(meta),
	}
	return ix.col.AddDocuments(ctx, []chromem.Document{doc}, 1)
}

// Save persists the whole index to the store location, overwriting any
// prior contents.
func (ix *Index) Save() error {
	if err := os.MkdirAll(ix.dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory %s: %w", ix.dir, err)
	}
	if err := ix.db.ExportToFile(filepath.Join(ix.dir, markerFile), true, ""); err != nil {
		return fmt.Errorf("saving index to %s: %w", ix.dir, err)
	}
	return nil
}

// Search returns up to k records nearest to the query, ordered by
// descending similarity. A positive threshold excludes records whose score
// does not clear it; the result may then be empty.
func (ix *Index) Search(ctx context.Context, query string, k int, threshold float32) ([]SearchResult, error) {
	if k <= 0 {
		k = 4
	}

	// chromem-go requires nResults <= collection size.
	count := ix.col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := ix.col.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	searchResults := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if threshold > 0 && r.Similarity < threshold {
			continue
		}
		searchResults = append(searchResults, SearchResult{
			Text:  r.Content,
			Score: r.Similarity,
			Meta:  mapToMetadata(r.Metadata),
		})
	}

	return searchResults, nil
}

// Count returns the number of records in the index.
func (ix *Index) Count() int {
	return ix.col.Count()
}
