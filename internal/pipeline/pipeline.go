// Package pipeline implements the concurrent producer/worker-pool/reducer
// that turns one FASTQ input into one GlobalAgg (spec.md §5): a single
// producer thread feeds chunk-aligned byte slices into a bounded channel;
// a pool of worker goroutines each aggregate their chunk independently into
// a PartialAgg; the reducer collects every (chunk_index, PartialAgg) pair
// and merges them in ascending chunk-index order, so the result is
// independent of the order in which workers actually finish.
package pipeline

import (
	"sync"

	"github.com/kira-bio/kira-qc/internal/fastqio"
	"github.com/kira-bio/kira-qc/internal/fastqrec"
	"github.com/kira-bio/kira-qc/internal/kiraagg"
	"github.com/kira-bio/kira-qc/internal/kiraerrors"
)

// result is one worker's output for one chunk.
type result struct {
	index int
	agg   *kiraagg.Agg
}

// Run drives the full producer/worker-pool/reducer pipeline over path and
// returns the merged global aggregate. mode and phredOffset are applied to
// every worker's per-chunk aggregate; threads sets the worker pool size and
// the bounded chunk queue's capacity (2*threads, spec.md §5).
func Run(path string, chunkSize, threads int, mode kiraagg.Mode, phredOffset int) (*kiraagg.Agg, error) {
	producer, closer, err := fastqio.Open(path, chunkSize)
	if err != nil {
		return nil, err
	}
	defer closer()

	chunks := make(chan fastqio.Chunk, 2*threads)
	results := make(chan result)
	totalChunks := make(chan int, 1)
	firstErr := kiraerrors.NewFirstError()

	var producerWG sync.WaitGroup
	producerWG.Add(1)
	go func() {
		defer producerWG.Done()
		count := 0
		for {
			chunk, ok, perr := producer.Next()
			if perr != nil {
				firstErr.Set(perr)
				close(chunks)
				return
			}
			if !ok {
				break
			}
			select {
			case chunks <- chunk:
				count++
			case <-firstErr.Done():
				// A worker hit a fatal error; stop feeding chunks instead
				// of blocking forever once the pool stops draining.
				close(chunks)
				return
			}
		}
		close(chunks)
		totalChunks <- count
	}()

	var workersWG sync.WaitGroup
	for w := 0; w < threads; w++ {
		workersWG.Add(1)
		go func() {
			defer workersWG.Done()
			for {
				var chunk fastqio.Chunk
				var ok bool
				select {
				case chunk, ok = <-chunks:
					if !ok {
						return
					}
				case <-firstErr.Done():
					return
				}
				agg, werr := aggregateChunk(chunk, mode, phredOffset)
				if werr != nil {
					firstErr.Set(werr)
					return
				}
				select {
				case results <- result{index: chunk.Index, agg: agg}:
				case <-firstErr.Done():
					// The reducer already returned on another worker's
					// error; nobody is left to receive this result.
					return
				}
			}
		}()
	}

	go func() {
		workersWG.Wait()
		close(results)
	}()

	global, recvErr := collect(results, totalChunks, firstErr, mode, phredOffset)
	producerWG.Wait()
	if recvErr != nil {
		return nil, recvErr
	}
	return global, nil
}

// ChunkFingerprintSum re-walks path's chunk boundaries and XORs every
// chunk's Fingerprint together, giving callers a cheap way to confirm two
// runs over the same input with the same chunk size produced the same
// sequence of chunk-aligned slices before trusting a merged result. A
// different chunk size gives different boundaries and so a different sum.
func ChunkFingerprintSum(path string, chunkSize int) (uint64, error) {
	producer, closer, err := fastqio.Open(path, chunkSize)
	if err != nil {
		return 0, err
	}
	defer closer()

	var sum uint64
	for {
		chunk, ok, err := producer.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		sum ^= chunk.Fingerprint()
	}
	return sum, nil
}

// aggregateChunk splits one chunk into records and folds every record into
// a fresh PartialAgg, isolated per worker (no shared mutable state besides
// the read-only chunk bytes, spec.md §5).
func aggregateChunk(chunk fastqio.Chunk, mode kiraagg.Mode, phredOffset int) (*kiraagg.Agg, error) {
	agg := kiraagg.New(mode, phredOffset)
	sp := fastqrec.NewSplitter(chunk.Bytes)
	for {
		v, ok, err := sp.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		agg.Update(v)
	}
	return agg, nil
}

// collect implements the reducer's select loop (spec.md §5): it waits for
// either the first fatal error or the producer's total chunk count, then
// collects exactly that many results (placing each into parts[index] as it
// arrives, regardless of completion order), and finally merges parts in
// ascending index order. On a fatal error it returns immediately without
// draining results; the producer and surviving workers notice the same
// error via FirstError.Done and stop feeding/sending on their own, so no
// one is left blocked on a channel this function has stopped reading.
func collect(results <-chan result, totalChunks <-chan int, firstErr *kiraerrors.FirstError, mode kiraagg.Mode, phredOffset int) (*kiraagg.Agg, error) {
	var parts []*kiraagg.Agg
	received := 0
	total := -1

	for total < 0 || received < total {
		select {
		case err := <-firstErr.Chan():
			return nil, err
		case n := <-totalChunks:
			total = n
			totalChunks = nil // consumed once; never selected again
			if len(parts) < total {
				grown := make([]*kiraagg.Agg, total)
				copy(grown, parts)
				parts = grown
			}
		case r, ok := <-results:
			if !ok {
				// All workers have returned. If an error caused some of
				// them to stop early, firstErr now has a value and wins
				// the next iteration; disable this case either way so a
				// closed channel can't spin the select.
				results = nil
				continue
			}
			if len(parts) <= r.index {
				grown := make([]*kiraagg.Agg, r.index+1)
				copy(grown, parts)
				parts = grown
			}
			parts[r.index] = r.agg
			received++
		}
	}

	if total == 0 {
		return nil, kiraerrors.AtChunk(kiraerrors.KindInput, kiraerrors.ErrEmptyInput, 0)
	}

	global := kiraagg.New(mode, phredOffset)
	for _, p := range parts {
		if p == nil {
			continue
		}
		global.Merge(p)
	}
	return global, nil
}
