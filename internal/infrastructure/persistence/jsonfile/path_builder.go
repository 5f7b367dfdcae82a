package jsonfile

import (
	"path/filepath"

	"taskdeck/internal/domain/repository"
)

const (
	tasksFile = "tasks.json"
	trashFile = "trash.json"
	lockFile  = ".taskdeck.lock"
)

// PathBuilder constructs filesystem paths for the store files
type PathBuilder struct {
	dataDir string
}

// NewPathBuilder creates a new PathBuilder
func NewPathBuilder(dataDir string) *PathBuilder {
	return &PathBuilder{
		dataDir: dataDir,
	}
}

// DataDir returns the directory holding all store files
func (pb *PathBuilder) DataDir() string {
	return pb.dataDir
}

// BucketFile returns the JSON file backing a bucket
func (pb *PathBuilder) BucketFile(bucket repository.Bucket) string {
	if bucket == repository.BucketTrash {
		return filepath.Join(pb.dataDir, trashFile)
	}
	return filepath.Join(pb.dataDir, tasksFile)
}

// LockFile returns the path of the cross-process lock file
func (pb *PathBuilder) LockFile() string {
	return filepath.Join(pb.dataDir, lockFile)
}

// BucketForFile maps a store file back to its bucket
func (pb *PathBuilder) BucketForFile(path string) (repository.Bucket, bool) {
	switch filepath.Base(path) {
	case tasksFile:
		return repository.BucketTasks, true
	case trashFile:
		return repository.BucketTrash, true
	default:
		return "", false
	}
}
