package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/repository"
	"taskdeck/internal/infrastructure/persistence/mapper"
	"taskdeck/pkg/filesystem"
)

const lockRetryInterval = 25 * time.Millisecond

// TaskRepositoryImpl implements TaskRepository with one JSON file per bucket.
// Writes are atomic and serialized across processes with a file lock. While
// Watch runs, reads are served from a cache that file events invalidate.
type TaskRepositoryImpl struct {
	pathBuilder *PathBuilder
	logger      log.FieldLogger

	// fileMu serializes goroutines; lock only excludes other processes
	fileMu sync.Mutex
	lock   *flock.Flock

	mu       sync.Mutex
	cache    map[repository.Bucket][]entity.Task
	watching bool
	// gen counts invalidations per bucket; a read only fills the cache if
	// no invalidation happened since it started
	gen map[repository.Bucket]uint64
}

var _ repository.TaskRepository = (*TaskRepositoryImpl)(nil)

// NewTaskRepository creates a JSON file repository rooted at dataDir
func NewTaskRepository(dataDir string, logger log.FieldLogger) (*TaskRepositoryImpl, error) {
	pb := NewPathBuilder(dataDir)
	if err := filesystem.EnsureDir(pb.DataDir(), 0755); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &TaskRepositoryImpl{
		pathBuilder: pb,
		lock:        flock.New(pb.LockFile()),
		logger:      logger,
		cache:       make(map[repository.Bucket][]entity.Task),
		gen:         make(map[repository.Bucket]uint64),
	}, nil
}

// Load returns the tasks of a bucket
func (r *TaskRepositoryImpl) Load(ctx context.Context, bucket repository.Bucket) ([]entity.Task, error) {
	if tasks, ok := r.cached(bucket); ok {
		return tasks, nil
	}

	r.fileMu.Lock()
	defer r.fileMu.Unlock()

	locked, err := r.lock.TryRLockContext(ctx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to lock store: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to lock store")
	}
	defer r.lock.Unlock()

	gen := r.generation(bucket)
	tasks, err := r.read(bucket)
	if err != nil {
		return nil, err
	}
	r.rememberAt(bucket, tasks, gen)
	return cloneAll(tasks), nil
}

// Update runs fn over the current bucket contents and saves the result
func (r *TaskRepositoryImpl) Update(ctx context.Context, bucket repository.Bucket, fn func([]entity.Task) ([]entity.Task, error)) error {
	r.fileMu.Lock()
	defer r.fileMu.Unlock()

	locked, err := r.lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("failed to lock store: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to lock store")
	}
	defer r.lock.Unlock()

	gen := r.generation(bucket)
	current, err := r.read(bucket)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(mapper.TasksToStorage(next), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", bucket, err)
	}
	if err := filesystem.SafeWrite(r.pathBuilder.BucketFile(bucket), data, 0644); err != nil {
		return fmt.Errorf("failed to save %s: %w", bucket, err)
	}

	r.rememberAt(bucket, next, gen)
	return nil
}

// read loads a bucket file from disk; a missing file is an empty bucket
func (r *TaskRepositoryImpl) read(bucket repository.Bucket) ([]entity.Task, error) {
	data, ok, err := filesystem.ReadIfExists(r.pathBuilder.BucketFile(bucket))
	if err != nil {
		return nil, err
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return make([]entity.Task, 0), nil
	}

	var records []mapper.TaskStorage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", bucket, err)
	}
	tasks, err := mapper.TasksFromStorage(records)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", bucket, err)
	}
	return tasks, nil
}

// Watch invalidates the cache whenever a bucket file changes on disk. It
// blocks until ctx is done. Until Watch is running every read goes to disk.
func (r *TaskRepositoryImpl) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.pathBuilder.DataDir()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", r.pathBuilder.DataDir(), err)
	}

	r.mu.Lock()
	r.watching = true
	r.cache = make(map[repository.Bucket][]entity.Task)
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.watching = false
		r.cache = make(map[repository.Bucket][]entity.Task)
		r.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if bucket, known := r.pathBuilder.BucketForFile(event.Name); known {
				r.invalidate(bucket)
				r.logger.WithFields(log.Fields{"file": event.Name, "op": event.Op.String()}).Debug("store file changed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.WithError(err).Warn("store watcher error")
		}
	}
}

func (r *TaskRepositoryImpl) cached(bucket repository.Bucket) ([]entity.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.watching {
		return nil, false
	}
	tasks, ok := r.cache[bucket]
	if !ok {
		return nil, false
	}
	return cloneAll(tasks), true
}

func (r *TaskRepositoryImpl) generation(bucket repository.Bucket) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen[bucket]
}

// rememberAt caches tasks read at generation gen, unless the bucket has been
// invalidated since
func (r *TaskRepositoryImpl) rememberAt(bucket repository.Bucket, tasks []entity.Task, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.watching && r.gen[bucket] == gen {
		r.cache[bucket] = cloneAll(tasks)
	}
}

func (r *TaskRepositoryImpl) invalidate(bucket repository.Bucket) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, bucket)
	r.gen[bucket]++
}

func cloneAll(tasks []entity.Task) []entity.Task {
	out := make([]entity.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
