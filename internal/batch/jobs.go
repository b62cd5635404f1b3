package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"codeberg.org/snonux/phonetext/internal"
)

// Job is one input text file and the file its translation is written to
type Job struct {
	Input  string
	Output string
}

// PlanDirectory lists the regular, non-hidden files of inDir in name order
// and maps each to outDir with its extension replaced by ext
func PlanDirectory(inDir, outDir, ext string) ([]Job, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var jobs []Job
	for _, entry := range entries {
		name := entry.Name()
		if internal.IsHidden(name) || entry.IsDir() {
			continue
		}
		jobs = append(jobs, Job{
			Input:  filepath.Join(inDir, name),
			Output: filepath.Join(outDir, internal.OutputFileName(name, ext)),
		})
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Input < jobs[j].Input })
	return jobs, nil
}

// ReadJobFile reads jobs from a list file
// Supports formats:
// - Input only: "chapter1.txt" (output goes to outDir with ext)
// - With output: "chapter1.txt = out/one.txt" (explicit output path)
// Blank lines and lines starting with '#' are ignored.
func ReadJobFile(filename, outDir, ext string) ([]Job, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	var jobs []Job
	for n, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		input, output := line, ""
		if strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			input = strings.TrimSpace(parts[0])
			output = strings.TrimSpace(parts[1])
		}

		if input == "" {
			return nil, fmt.Errorf("%s:%d: missing input path", filename, n+1)
		}
		if output == "" {
			output = filepath.Join(outDir, internal.OutputFileName(input, ext))
		}

		jobs = append(jobs, Job{Input: input, Output: output})
	}

	return jobs, nil
}
