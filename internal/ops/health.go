package ops

import "context"

// Pinger is implemented by repositories that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the metadata store is reachable.
func (s *Service) Health(ctx context.Context) error {
	if p, ok := s.entries.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
