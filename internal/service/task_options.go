package service

import (
	"time"
)

type Option func(*TaskService)

func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *TaskService) {
		if newID != nil {
			s.newID = newID
		}
	}
}
