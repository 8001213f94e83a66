package seminar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "aikifed/pkg/domain-errors"
)

type SeminarModelSuite struct {
	suite.Suite
	now time.Time
}

func TestSeminarModelSuite(t *testing.T) {
	suite.Run(t, new(SeminarModelSuite))
}

func (s *SeminarModelSuite) SetupTest() {
	s.now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

func (s *SeminarModelSuite) newSeminar(maxParticipants *int) *Seminar {
	sem, err := New("Summer Gasshuku", "", "Yamada Sensei", "Central Dojo", "", "Madrid", "",
		s.now.AddDate(0, 1, 0), s.now.AddDate(0, 1, 2), 120, maxParticipants, "club-1", "", s.now)
	s.Require().NoError(err)
	return sem
}

func (s *SeminarModelSuite) TestNew() {
	s.Run("valid seminar starts upcoming", func() {
		sem := s.newSeminar(nil)
		s.Equal(StatusUpcoming, sem.Status)
		s.Zero(sem.CurrentParticipants)
	})

	s.Run("empty title fails validation", func() {
		_, err := New("", "", "Yamada Sensei", "", "", "", "", s.now, s.now, 0, nil, "", "", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("empty instructor fails validation", func() {
		_, err := New("Gasshuku", "", "", "Central Dojo", "", "", "", s.now, s.now, 0, nil, "", "", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("empty location fails validation", func() {
		_, err := New("Gasshuku", "", "Yamada Sensei", "", "", "", "", s.now, s.now, 0, nil, "", "", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("negative price fails validation", func() {
		_, err := New("Gasshuku", "", "Yamada Sensei", "Central Dojo", "", "", "", s.now, s.now, -5, nil, "", "", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("negative capacity fails validation", func() {
		bad := -1
		_, err := New("Gasshuku", "", "Yamada Sensei", "Central Dojo", "", "", "", s.now, s.now, 0, &bad, "", "", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("start after end fails validation", func() {
		_, err := New("Gasshuku", "", "Yamada Sensei", "Central Dojo", "", "", "",
			s.now.AddDate(0, 0, 2), s.now, 0, nil, "", "", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *SeminarModelSuite) TestTransitions() {
	s.Run("upcoming to ongoing to completed", func() {
		sem := s.newSeminar(nil)
		s.Require().NoError(sem.MarkOngoing(s.now))
		s.Equal(StatusOngoing, sem.Status)
		s.Require().NoError(sem.MarkCompleted(s.now))
		s.Equal(StatusCompleted, sem.Status)
	})

	s.Run("cannot start twice", func() {
		sem := s.newSeminar(nil)
		s.Require().NoError(sem.MarkOngoing(s.now))
		err := sem.MarkOngoing(s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("cannot complete an upcoming seminar", func() {
		sem := s.newSeminar(nil)
		err := sem.MarkCompleted(s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("cancel from upcoming and ongoing succeeds", func() {
		upcoming := s.newSeminar(nil)
		s.NoError(upcoming.Cancel(s.now))
		s.Equal(StatusCancelled, upcoming.Status)

		ongoing := s.newSeminar(nil)
		s.Require().NoError(ongoing.MarkOngoing(s.now))
		s.NoError(ongoing.Cancel(s.now))
	})

	s.Run("cancelling a completed seminar fails", func() {
		sem := s.newSeminar(nil)
		s.Require().NoError(sem.MarkOngoing(s.now))
		s.Require().NoError(sem.MarkCompleted(s.now))

		err := sem.Cancel(s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(StatusCompleted, sem.Status)
	})
}

func (s *SeminarModelSuite) TestCapacity() {
	s.Run("last seat fills the seminar, the next registration fails", func() {
		max := 50
		sem := s.newSeminar(&max)
		sem.CurrentParticipants = 49

		s.Require().NoError(sem.AddParticipant(s.now))
		s.Equal(50, sem.CurrentParticipants)
		s.True(sem.IsFull())

		err := sem.AddParticipant(s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(50, sem.CurrentParticipants)
	})

	s.Run("no limit means never full", func() {
		sem := s.newSeminar(nil)
		for range 200 {
			s.Require().NoError(sem.AddParticipant(s.now))
		}
		s.False(sem.IsFull())
	})

	s.Run("remove participant floors at zero", func() {
		sem := s.newSeminar(nil)
		sem.RemoveParticipant(s.now)
		s.Zero(sem.CurrentParticipants)
	})
}

func (s *SeminarModelSuite) TestUpdates() {
	s.Run("update dates round-trips valid values", func() {
		sem := s.newSeminar(nil)
		a := s.now.AddDate(0, 2, 0)
		b := a.AddDate(0, 0, 3)
		s.Require().NoError(sem.UpdateDates(a, b, s.now))
		s.Equal(a, sem.StartDate)
		s.Equal(b, sem.EndDate)
	})

	s.Run("reversed dates leave prior values unchanged", func() {
		sem := s.newSeminar(nil)
		prevStart, prevEnd := sem.StartDate, sem.EndDate
		err := sem.UpdateDates(prevEnd, prevStart, s.now)
		s.Require().Error(err)
		s.Equal(prevStart, sem.StartDate)
		s.Equal(prevEnd, sem.EndDate)
	})

	s.Run("negative price update is rejected", func() {
		sem := s.newSeminar(nil)
		s.Error(sem.UpdatePrice(-1, s.now))
		s.Equal(120.0, sem.Price)
	})
}
