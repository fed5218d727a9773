package video

import (
	"path/filepath"
	"strings"
)

const (
	// DefaultOutputSuffix is appended to the input stem when no output is given
	DefaultOutputSuffix = "_trim"

	// DefaultOutputExtension is the container used for derived output names
	DefaultOutputExtension = ".mp4"
)

// OutputNaming controls how an output path is derived from the input path
type OutputNaming struct {
	Suffix    string
	Extension string
}

// DefaultOutputNaming yields <stem>_trim.mp4
func DefaultOutputNaming() OutputNaming {
	return OutputNaming{
		Suffix:    DefaultOutputSuffix,
		Extension: DefaultOutputExtension,
	}
}

// ResolveOutputPath applies the default naming, see OutputNaming.Resolve
func ResolveOutputPath(inputPath, userOutput string) string {
	return DefaultOutputNaming().Resolve(inputPath, userOutput)
}

// Resolve derives the output path without touching the filesystem.
//
// With no userOutput the result sits next to the input as <stem><suffix><ext>.
// A bare filename is placed in the input's directory. Anything with a
// directory component is used verbatim.
func (n OutputNaming) Resolve(inputPath, userOutput string) string {
	dir := filepath.Dir(inputPath)

	if userOutput == "" {
		base := filepath.Base(inputPath)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		ext := n.Extension
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return filepath.Join(dir, stem+n.Suffix+ext)
	}

	if filepath.Base(userOutput) != userOutput {
		return userOutput
	}

	return filepath.Join(dir, userOutput)
}
