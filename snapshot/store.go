package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/selgo"
	"github.com/hupe1980/selgo/blobstore"
)

// ErrNoSnapshot is returned by Pull when the store holds no generation yet.
var ErrNoSnapshot = errors.New("no snapshot available")

// genPrefix and genSuffix frame generation blob names: gen-%016d.sel.
// Zero-padding keeps lexicographic and numeric order identical, so the
// blobstore's sorted List is already generation order.
const (
	genPrefix = "gen-"
	genSuffix = ".sel"
	genDigits = 16
)

// StoreOptions configures a snapshot Store.
type StoreOptions struct {
	// Prefix is prepended to every generation blob name.
	Prefix string

	// Keep is the number of generations retained after a Push.
	// 0 keeps all generations.
	Keep int
}

// Store keeps versioned snapshot generations in a BlobStore.
//
// Every Push writes a new, immutable generation; Pull reads the latest one.
// Old generations are pruned after a successful Push, so a reader never
// observes a partially written latest generation.
type Store struct {
	blobs blobstore.BlobStore
	opts  StoreOptions
}

// NewStore creates a snapshot store on top of blobs.
func NewStore(blobs blobstore.BlobStore, optFns ...func(o *StoreOptions)) *Store {
	opts := StoreOptions{
		Keep: 4,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		blobs: blobs,
		opts:  opts,
	}
}

// Push writes st as a new generation and prunes old generations down to the
// configured Keep count. It returns the name of the new generation blob.
func (s *Store) Push(ctx context.Context, st selgo.State) (string, error) {
	gens, err := s.Generations(ctx)
	if err != nil {
		return "", err
	}

	next := uint64(0)
	if len(gens) > 0 {
		last, err := s.parseGen(gens[len(gens)-1])
		if err != nil {
			return "", err
		}
		next = last + 1
	}

	var buf bytes.Buffer
	if err := Write(&buf, st); err != nil {
		return "", err
	}

	name := s.genName(next)
	if err := s.blobs.Put(ctx, name, buf.Bytes()); err != nil {
		return "", fmt.Errorf("snapshot: push generation %q: %w", name, err)
	}

	if s.opts.Keep > 0 && len(gens)+1 > s.opts.Keep {
		if err := s.prune(ctx, gens[:len(gens)+1-s.opts.Keep]); err != nil {
			return "", err
		}
	}
	return name, nil
}

// Pull reads the latest generation. It returns ErrNoSnapshot when the store
// is empty.
func (s *Store) Pull(ctx context.Context) (selgo.State, error) {
	gens, err := s.Generations(ctx)
	if err != nil {
		return selgo.State{}, err
	}
	if len(gens) == 0 {
		return selgo.State{}, ErrNoSnapshot
	}

	blob, err := s.blobs.Open(ctx, gens[len(gens)-1])
	if err != nil {
		return selgo.State{}, err
	}
	defer blob.Close()

	return Read(blob)
}

// Generations returns all generation blob names in generation order.
func (s *Store) Generations(ctx context.Context) ([]string, error) {
	names, err := s.blobs.List(ctx, s.opts.Prefix+genPrefix)
	if err != nil {
		return nil, err
	}
	gens := names[:0]
	for _, name := range names {
		if strings.HasSuffix(name, genSuffix) {
			gens = append(gens, name)
		}
	}
	return gens, nil
}

// Prune deletes all but the newest keep generations.
func (s *Store) Prune(ctx context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}
	gens, err := s.Generations(ctx)
	if err != nil {
		return err
	}
	if len(gens) <= keep {
		return nil
	}
	return s.prune(ctx, gens[:len(gens)-keep])
}

// prune deletes the given generations concurrently. Object stores serve
// deletes independently, so fan-out keeps housekeeping off the gesture path.
func (s *Store) prune(ctx context.Context, stale []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, name := range stale {
		g.Go(func() error {
			return s.blobs.Delete(ctx, name)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("snapshot: prune generations: %w", err)
	}
	return nil
}

func (s *Store) genName(gen uint64) string {
	return fmt.Sprintf("%s%s%0*d%s", s.opts.Prefix, genPrefix, genDigits, gen, genSuffix)
}

func (s *Store) parseGen(name string) (uint64, error) {
	raw := strings.TrimPrefix(name, s.opts.Prefix+genPrefix)
	raw = strings.TrimSuffix(raw, genSuffix)
	gen, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("snapshot: malformed generation name %q: %w", name, err)
	}
	return gen, nil
}
