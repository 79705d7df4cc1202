// Package localstore keeps the portal's client-side flags, such as which
// courses the current student has enrolled in.
package localstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/pkg/config"
	"github.com/noah-isme/course-portal/pkg/storage"
)

// Store reads and writes enrollment flags keyed per course.
type Store interface {
	Enrolled(ctx context.Context, courseID int64) (bool, error)
	SetEnrolled(ctx context.Context, courseID int64, enrolled bool) error
}

// Key returns the flag name for courseID.
func Key(courseID int64) string {
	return "enrolled_" + strconv.FormatInt(courseID, 10)
}

// Open selects the backend named by cfg.Portal.LocalStore. namespace scopes
// shared backends to one actor.
func Open(ctx context.Context, cfg *config.Config, namespace string, client *redis.Client, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Portal.LocalStore {
	case config.LocalStoreMemory:
		return NewMemory(), nil
	case config.LocalStoreRedis:
		if client == nil {
			return nil, fmt.Errorf("redis local store requires a redis client")
		}
		return NewRedis(client, namespace), nil
	case config.LocalStoreFile, "":
		dir := cfg.Portal.LocalStorePath
		if dir == "" {
			base, err := os.UserConfigDir()
			if err != nil {
				return nil, fmt.Errorf("resolve config dir: %w", err)
			}
			dir = filepath.Join(base, "course-portal")
		}
		fs, err := storage.NewLocalStorage(dir)
		if err != nil {
			return nil, err
		}
		logger.Debug("local store opened", zap.String("dir", fs.BaseDir()))
		return NewFile(fs, namespace), nil
	default:
		return nil, fmt.Errorf("unknown local store backend %q", cfg.Portal.LocalStore)
	}
}
