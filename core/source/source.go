// Package source locates compose compiler report and metrics files.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/huangsam/composeguard/schema"
)

// Sentinel errors returned by this package. Callers match them with errors.Is.
var (
	ErrMissingFile     = errors.New("report file does not exist")
	ErrNotDirectory    = errors.New("not a directory")
	ErrMissingBaseline = errors.New("golden metrics do not exist")
)

// RawReportSet groups the report files of one variant by kind.
type RawReportSet struct {
	Brief     []string // -module.json
	Detailed  []string // -composables.csv
	Functions []string // -composables.txt
	Types     []string // -classes.txt
}

// Empty returns a set with no files.
func Empty() RawReportSet {
	return RawReportSet{}
}

// FromFiles builds a set from explicit file lists. Every file must exist.
func FromFiles(brief, detailed, functions, types []string) (RawReportSet, error) {
	set := RawReportSet{Brief: brief, Detailed: detailed, Functions: functions, Types: types}
	if err := set.Validate(); err != nil {
		return RawReportSet{}, err
	}
	return set, nil
}

// FromDirectory scans the top level of dir for report files of a variant.
// A file is selected when its name contains the variant and ends with a known suffix.
func FromDirectory(dir, variant string) (RawReportSet, error) {
	if err := ensureDirectory(dir); err != nil {
		return RawReportSet{}, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return RawReportSet{}, fmt.Errorf("failed to read report directory %s: %w", dir, err)
	}

	var set RawReportSet
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.Contains(name, variant) {
			continue
		}
		path := filepath.Join(dir, name)
		switch {
		case strings.HasSuffix(name, schema.BriefStatsSuffix):
			set.Brief = append(set.Brief, path)
		case strings.HasSuffix(name, schema.DetailedStatsSuffix):
			set.Detailed = append(set.Detailed, path)
		case strings.HasSuffix(name, schema.FunctionsSuffix):
			set.Functions = append(set.Functions, path)
		case strings.HasSuffix(name, schema.TypesSuffix):
			set.Types = append(set.Types, path)
		}
	}

	for _, paths := range [][]string{set.Brief, set.Detailed, set.Functions, set.Types} {
		sort.Strings(paths)
	}
	if err := set.Validate(); err != nil {
		return RawReportSet{}, err
	}
	return set, nil
}

// Validate checks that every file of the set exists.
func (s RawReportSet) Validate() error {
	for _, path := range s.All() {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file '%s': %w", path, ErrMissingFile)
			}
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return nil
}

// All returns every file of the set in kind order.
func (s RawReportSet) All() []string {
	all := make([]string, 0, s.Len())
	all = append(all, s.Brief...)
	all = append(all, s.Detailed...)
	all = append(all, s.Functions...)
	all = append(all, s.Types...)
	return all
}

// Len returns the number of files in the set.
func (s RawReportSet) Len() int {
	return len(s.Brief) + len(s.Detailed) + len(s.Functions) + len(s.Types)
}

// VariantExists reports whether any top-level file in dir has a name containing the variant.
// A missing or unreadable directory has no variants. Subdirectories are ignored.
func VariantExists(dir, variant string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.Contains(entry.Name(), variant) {
			return true
		}
	}
	return false
}

// MissingBaselineError reports that no golden metrics exist for a variant.
type MissingBaselineError struct {
	Variant string
}

// Error returns the user-facing message with the command that fixes it.
func (e *MissingBaselineError) Error() string {
	if e.Variant == "" {
		return "Golden metrics do not exist! Please generate them using `composeguard generate`"
	}
	return fmt.Sprintf("Golden metrics do not exist for variant %s! Please generate them using `composeguard generate --variant %s`",
		e.Variant, e.Variant)
}

// Is matches ErrMissingBaseline.
func (e *MissingBaselineError) Is(target error) bool {
	return target == ErrMissingBaseline
}

// EnsureVariant returns a *MissingBaselineError when dir holds no files for the variant.
func EnsureVariant(dir, variant string) error {
	if VariantExists(dir, variant) {
		return nil
	}
	return &MissingBaselineError{Variant: variant}
}

func ensureDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("directory '%s' not exists: %w", dir, ErrNotDirectory)
	}
	return nil
}
