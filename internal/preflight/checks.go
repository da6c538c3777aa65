package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"reverbkit/internal/config"
	"reverbkit/internal/corpus"
	"reverbkit/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and grants the
// requested access. writable selects read/write; otherwise read only.
func CheckDirectoryAccess(name, path string, writable bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	mode, label := uint32(unix.R_OK|unix.X_OK), "read ok"
	if writable {
		mode, label = unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckOutputDirectory passes when path is a writable directory or does not
// exist yet but its nearest existing parent is writable.
func CheckOutputDirectory(name, path string) Result {
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path, true)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	parent := filepath.Dir(path)
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckReadableFile verifies that path is a regular readable file.
func CheckReadableFile(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckDistinct fails when the input and output directories resolve to the
// same place.
func CheckDistinct(inputDir, outputDir string) Result {
	const name = "Distinct directories"
	in, err := filepath.Abs(inputDir)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if resolved, err := filepath.EvalSymlinks(in); err == nil {
		in = resolved
	}
	if resolved, err := filepath.EvalSymlinks(out); err == nil {
		out = resolved
	}
	if in == out {
		return Result{Name: name, Detail: fmt.Sprintf("input and output are both %s", in)}
	}
	return Result{Name: name, Passed: true, Detail: "input and output differ"}
}

// CheckSystemDeps evaluates the external binaries for the given config.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(cfg))
}

// CheckInputFiles reports the presence of wav.scp and the optional tables of
// an input data directory.
func CheckInputFiles(inputDir string) []Result {
	results := []Result{CheckReadableFile("wav.scp", filepath.Join(inputDir, corpus.WavScp))}
	optional := []string{corpus.Reco2Dur}
	for _, companion := range corpus.Companions {
		optional = append(optional, companion.Name)
	}
	for _, name := range optional {
		exists, err := corpus.Exists(inputDir, name)
		switch {
		case err != nil:
			results = append(results, Result{Name: name, Detail: err.Error()})
		case exists:
			results = append(results, CheckReadableFile(name, filepath.Join(inputDir, name)))
		default:
			detail := "absent (skipped)"
			if name == corpus.Reco2Dur {
				detail = "absent (durations will be probed)"
			}
			results = append(results, Result{Name: name, Passed: true, Optional: true, Detail: detail})
		}
	}
	return results
}
