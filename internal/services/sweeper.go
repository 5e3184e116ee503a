package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/careermate/go-career-backend/internal/repo"
)

// UploadSweeper removes stale files from the upload directory. Implemented by
// uploads.Store.
type UploadSweeper interface {
	Sweep(now time.Time) (int, error)
}

// Sweeper periodically deletes expired conversations (and their messages via
// the cascade) and prunes stale uploads. Expired rows are already invisible
// to lookups; the sweep just reclaims storage.
type Sweeper struct {
	DB       *gorm.DB
	Interval time.Duration
	Uploads  UploadSweeper // optional
}

// Run blocks, sweeping every Interval until ctx is cancelled. Intended to be
// launched as a goroutine from main.
func (s *Sweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now()

	n, err := repo.DeleteExpiredConversations(ctx, s.DB, now)
	if err != nil {
		log.Error().Err(err).Msg("conversation sweep failed")
	} else if n > 0 {
		log.Info().Int64("removed", n).Msg("swept expired conversations")
	}

	if s.Uploads == nil {
		return
	}
	removed, err := s.Uploads.Sweep(now)
	if err != nil {
		log.Error().Err(err).Msg("upload sweep failed")
	} else if removed > 0 {
		log.Info().Int("removed", removed).Msg("swept stale uploads")
	}
}
