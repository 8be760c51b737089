package publish

import "context"

// Publisher flips which page variant the public site serves as its index.
type Publisher interface {
	Publish(ctx context.Context, healthy bool) error
}
