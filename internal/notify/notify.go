// Package notify defines the reveal notification boundary.
//
// The engine treats notification bodies as opaque strings; host-specific
// rich-text markup passes through unmodified.
package notify

import "context"

// Audience selects who receives a notification.
type Audience string

const (
	// AudiencePlayer addresses the player-facing channel.
	AudiencePlayer Audience = "player"
	// AudienceGM addresses the GM-facing channel.
	AudienceGM Audience = "gm"
)

// Notifier dispatches reveal notifications to an audience.
type Notifier interface {
	Notify(ctx context.Context, audience Audience, title, body string) error
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, audience Audience, title, body string) error

// Notify implements Notifier.
func (f Func) Notify(ctx context.Context, audience Audience, title, body string) error {
	if f == nil {
		return nil
	}
	return f(ctx, audience, title, body)
}
