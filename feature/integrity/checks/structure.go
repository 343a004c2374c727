package checks

import (
	"context"
	"fmt"
	"strings"

	"bucket-manager/core/storage"

	"go.uber.org/zap"
)

// FolderContentType marks the zero-byte placeholder objects created for folders.
const FolderContentType = "application/x-directory"

// NormalizeFolders trims the folder names, drops blanks and duplicates and
// appends the trailing slash used as the folder marker.
func NormalizeFolders(folders []string) []string {
	seen := make(map[string]bool, len(folders))
	out := make([]string, 0, len(folders))
	for _, f := range folders {
		f = strings.Trim(strings.TrimSpace(f), "/")
		if f == "" {
			continue
		}
		f += "/"
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// CheckStructure returns the folders that hold no object at all.
func CheckStructure(ctx context.Context, client storage.Client, folders []string) ([]string, error) {
	missing := []string{}

	for _, folder := range NormalizeFolders(folders) {
		keys, err := client.ListKeys(ctx, folder, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to list folder %s: %w", folder, err)
		}
		if len(keys) == 0 {
			missing = append(missing, folder)
		}
	}

	return missing, nil
}

// FixStructure creates a placeholder object for each missing folder.
func FixStructure(ctx context.Context, client storage.Client, logger *zap.Logger, missing []string) error {
	for _, folder := range NormalizeFolders(missing) {
		err := client.WriteObject(ctx, folder, nil, storage.WriteOptions{ContentType: FolderContentType})
		if err != nil {
			logger.Error("Failed to create folder", zap.String("folder", folder), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", folder))
	}
	return nil
}
