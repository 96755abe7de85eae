package cron

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper periodically removes stale spool files left behind by Excel
// imports.
type Sweeper struct {
	c      *cron.Cron
	dir    string
	maxAge time.Duration
	log    *zap.Logger
}

func NewSweeper(dir string, maxAge time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		c:      cron.New(),
		dir:    dir,
		maxAge: maxAge,
		log:    log.Named("sweeper"),
	}
}

func (s *Sweeper) Start() error {
	if _, err := s.c.AddFunc("@every 1h", s.sweep); err != nil {
		return err
	}
	s.c.Start()
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.c.Stop().Done()
}

func (s *Sweeper) sweep() {
	cutoff := time.Now().Add(-s.maxAge)
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Error("read upload dir", zap.Error(err))
		}
		return
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			s.log.Warn("remove stale upload", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		s.log.Info("swept stale uploads", zap.Int("removed", removed))
	}
}
