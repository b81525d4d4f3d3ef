package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/composeguard/core/source"
	"github.com/huangsam/composeguard/internal/contract"
)

// ExecuteGenerate promotes the current reports of every configured variant to golden metrics.
// Existing golden files of a variant are replaced. Other variants are left alone unless
// every golden file is wiped first.
func ExecuteGenerate(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	if err := os.MkdirAll(cfg.GoldenDir, 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory %s: %w", cfg.GoldenDir, err)
	}
	// Subdirectories survive since the current reports may live inside the golden directory
	if cfg.GenerateClean {
		if err := removeVariantFiles(cfg.GoldenDir, ""); err != nil {
			return err
		}
	}

	for _, variant := range cfg.Variants {
		if err := ctx.Err(); err != nil {
			return err
		}
		copied, err := generateVariant(cfg.CheckDir, cfg.GoldenDir, variant)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Generated %d golden file(s) for %s in %s\n", copied, variantName(variant), cfg.GoldenDir)
	}
	return nil
}

// generateVariant replaces the golden files of one variant and returns how many were copied.
func generateVariant(checkDir, goldenDir, variant string) (int, error) {
	set, err := source.FromDirectory(checkDir, variant)
	if err != nil {
		return 0, fmt.Errorf("failed to scan current reports: %w", err)
	}
	files := set.All()
	if len(files) == 0 {
		return 0, fmt.Errorf("no compose reports found for %s in %s. Build with compose compiler reports enabled first", variantName(variant), checkDir)
	}

	if err := removeVariantFiles(goldenDir, variant); err != nil {
		return 0, err
	}
	for _, src := range files {
		if err := copyFile(src, filepath.Join(goldenDir, filepath.Base(src))); err != nil {
			return 0, err
		}
	}
	return len(files), nil
}

// removeVariantFiles deletes top-level files of dir whose name contains the variant.
func removeVariantFiles(dir, variant string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read golden directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), variant) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove stale golden file %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

// ExecuteClean removes the current reports directory, and the golden one when requested.
func ExecuteClean(_ context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	dirs := []string{cfg.CheckDir}
	if cfg.CleanGolden {
		dirs = append(dirs, cfg.GoldenDir)
	}
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
		fmt.Fprintf(os.Stderr, "🧹 Removed %s\n", dir)
	}
	return nil
}

func variantName(variant string) string {
	if variant == "" {
		return "all variants"
	}
	return "variant " + variant
}
