package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/model"
)

// ObjectOpener opens objects in remote storage.
type ObjectOpener interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// ErrNoObjectStore is returned when an s3:// path is given without an ObjectOpener.
var ErrNoObjectStore = errors.New("dataset: object storage not configured")

// IsRemote reports whether path refers to an s3:// object.
func IsRemote(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// SplitObjectPath splits s3://bucket/key into its bucket and key.
func SplitObjectPath(path string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(path, "s3://")
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid object path %q", path)
	}
	return bucket, key, nil
}

// Open loads a CSV dataset from a local file or an s3://bucket/key object.
func Open(ctx context.Context, path string, objects ObjectOpener) (*Store, Report, error) {
	rc, err := openSource(ctx, path, objects)
	if err != nil {
		return nil, Report{}, err
	}
	defer rc.Close()

	recipes, report, err := LoadCSV(rc)
	if err != nil {
		return nil, report, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}
	return NewStore(recipes), report, nil
}

func openSource(ctx context.Context, path string, objects ObjectOpener) (io.ReadCloser, error) {
	if !IsRemote(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open dataset: %w", err)
		}
		return f, nil
	}

	if objects == nil {
		return nil, ErrNoObjectStore
	}
	bucket, key, err := SplitObjectPath(path)
	if err != nil {
		return nil, err
	}
	rc, err := objects.Open(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset object: %w", err)
	}
	return rc, nil
}

// LoadDB reads the recipes table in primary key order.
func LoadDB(ctx context.Context, db *gorm.DB) (*Store, Report, error) {
	var recipes []model.Recipe
	if err := db.WithContext(ctx).Order("id").Find(&recipes).Error; err != nil {
		return nil, Report{}, fmt.Errorf("failed to read recipes table: %w", err)
	}

	kept := recipes[:0]
	report := Report{}
	for _, r := range recipes {
		n := r.Nutrients()
		if !n.Finite() || hasNegative(n) {
			report.Skipped++
			continue
		}
		kept = append(kept, r)
	}
	report.Loaded = len(kept)
	return NewStore(kept), report, nil
}

func hasNegative(v model.NutrientVector) bool {
	for _, x := range v {
		if x < 0 {
			return true
		}
	}
	return false
}
