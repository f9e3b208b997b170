package service

import (
	"fmt"
	"log"

	"mobispa/internal/availability"
	"mobispa/internal/repository"
)

type JobService struct {
	Jobs        *repository.JobRepository
	Invitations *repository.InvitationRepository
}

func NewJobService(jobs *repository.JobRepository, invitations *repository.InvitationRepository) *JobService {
	return &JobService{Jobs: jobs, Invitations: invitations}
}

// UpdateFinishedBookings finds confirmed bookings past their end instant and
// marks them completed, so they stop counting for conflict purposes.
func (s *JobService) UpdateFinishedBookings() error {
	log.Println("Cron Job: Checking for bookings to mark as 'completed'...")

	ids, err := s.Jobs.GetConfirmedBookingIDsPastEndTime()
	if err != nil {
		return fmt.Errorf("cron job: failed to get bookings past end time: %w", err)
	}
	if len(ids) == 0 {
		log.Println("Cron Job: No confirmed bookings found past their end time.")
		return nil
	}

	log.Printf("Cron Job: Found %d bookings to mark as 'completed'.", len(ids))
	if err := s.Jobs.UpdateBookingStatuses(ids, availability.StatusCompleted); err != nil {
		return fmt.Errorf("cron job: failed to update booking statuses: %w", err)
	}
	return nil
}

// PurgeExpiredInvitations deletes pending invitations past their expiry.
func (s *JobService) PurgeExpiredInvitations() error {
	purged, err := s.Invitations.DeleteExpired()
	if err != nil {
		return fmt.Errorf("cron job: failed to purge expired invitations: %w", err)
	}
	if purged > 0 {
		log.Printf("Cron Job: Purged %d expired invitations", purged)
	}
	return nil
}
