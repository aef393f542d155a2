package application

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// RoomCloser closes open rooms whose event started before cutoff
type RoomCloser interface {
	CloseExpiredRooms(ctx context.Context, cutoff time.Time) ([]int64, error)
}

// RoomCloseWorker periodically closes rooms whose event is long past
type RoomCloseWorker struct {
	closer   RoomCloser
	grace    time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewRoomCloseWorker creates a worker that closes rooms grace after their
// event timing, checking every interval
func NewRoomCloseWorker(closer RoomCloser, grace, interval time.Duration) *RoomCloseWorker {
	return &RoomCloseWorker{
		closer:   closer,
		grace:    grace,
		interval: interval,
		now:      time.Now,
	}
}

// Start schedules the job and returns a function that stops it
func (w *RoomCloseWorker) Start(ctx context.Context) (func(), error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			if _, err := w.RunOnce(ctx); err != nil {
				log.WithError(err).Error("Failed to close expired rooms")
			}
		}),
		gocron.WithName("room-close"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to schedule room close job: %w", err)
	}

	scheduler.Start()
	log.WithFields(log.Fields{
		"interval": w.interval,
		"grace":    w.grace,
	}).Info("Room close worker started")

	return func() {
		if err := scheduler.Shutdown(); err != nil {
			log.WithError(err).Warn("Room close scheduler shutdown failed")
		}
		log.Info("Room close worker stopped")
	}, nil
}

// RunOnce closes every open room whose event started more than grace ago
func (w *RoomCloseWorker) RunOnce(ctx context.Context) ([]int64, error) {
	cutoff := w.now().Add(-w.grace)
	closed, err := w.closer.CloseExpiredRooms(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	if len(closed) > 0 {
		log.WithFields(log.Fields{
			"rooms":  closed,
			"cutoff": cutoff,
		}).Info("Closed expired rooms")
	}
	return closed, nil
}
