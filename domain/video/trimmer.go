package video

import "context"

// Trimmer defines the interface for running a trim plan
// This is a port that can be implemented by different infrastructure adapters
type Trimmer interface {
	// Command returns the executable and argument list that Trim would run
	Command(plan TrimPlan) (name string, args []string)

	// Trim executes the plan and returns the output path on success
	Trim(ctx context.Context, plan TrimPlan) (string, error)
}

// DurationProber reports the total duration of a media file in seconds
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// FileChecker defines the interface for checking file existence
// A missing file is (false, nil); other stat failures are returned as errors
type FileChecker interface {
	Exists(path string) (bool, error)
}

// FileRemover deletes a file that is about to be replaced
type FileRemover interface {
	Remove(path string) error
}

// FileSystem combines the filesystem ports used by the planner
type FileSystem interface {
	FileChecker
	FileRemover
}
