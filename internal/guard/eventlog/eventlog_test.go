package eventlog

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kasbah/internal/guard/models"
)

type LogSuite struct {
	suite.Suite
	now time.Time
}

func (s *LogSuite) SetupTest() {
	s.now = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
}

func TestLogSuite(t *testing.T) {
	suite.Run(t, new(LogSuite))
}

func (s *LogSuite) tickingClock() func() time.Time {
	return func() time.Time {
		s.now = s.now.Add(time.Millisecond)
		return s.now
	}
}

func (s *LogSuite) TestRecordNewestFirst() {
	log := New(10, WithClock(s.tickingClock()))

	log.Record(models.EventStartup, map[string]any{"port": 8788})
	log.Record(models.EventDecide, map[string]any{"ticket": "a"})
	log.Record(models.EventConsume, map[string]any{"ticket": "a"})

	events := log.Snapshot()
	s.Require().Len(events, 3)
	s.Equal(models.EventConsume, events[0].Kind)
	s.Equal(models.EventDecide, events[1].Kind)
	s.Equal(models.EventStartup, events[2].Kind)
	s.True(events[0].Timestamp.After(events[1].Timestamp))
}

func (s *LogSuite) TestCapacityEnforced() {
	log := New(5, WithClock(s.tickingClock()))

	for i := 0; i < 20; i++ {
		log.Record(models.EventDecide, map[string]any{"n": i})
		s.LessOrEqual(log.Len(), 5)
	}

	events := log.Snapshot()
	s.Require().Len(events, 5)
	// Newest five survive, in reverse insertion order.
	for i, e := range events {
		data := e.Data.(map[string]any)
		s.Equal(19-i, data["n"])
	}
}

func (s *LogSuite) TestSnapshotIsACopy() {
	log := New(5)
	log.Record(models.EventStartup, nil)

	snap := log.Snapshot()
	snap[0].Kind = models.EventConsume

	s.Equal(models.EventStartup, log.Snapshot()[0].Kind)
}

func (s *LogSuite) TestEmptyLog() {
	log := New(5)
	s.Empty(log.Snapshot())
	s.Zero(log.Len())
}

func (s *LogSuite) TestConcurrentRecordStaysBounded() {
	log := New(8)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				log.Record(models.EventDecide, fmt.Sprintf("%d-%d", w, i))
				if len(log.Snapshot()) > 8 {
					s.T().Error("log exceeded capacity")
					return
				}
			}
		}(w)
	}
	wg.Wait()

	s.Equal(8, log.Len())
}
