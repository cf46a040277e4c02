package scheduling

import "time"

// SetNow replaces the service clock for tests.
func (s *Service) SetNow(now func() time.Time) { s.now = now }
