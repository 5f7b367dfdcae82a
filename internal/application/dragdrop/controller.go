// Package dragdrop turns a completed drag gesture into a single move.
package dragdrop

import (
	"context"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/valueobject"
)

// Mover moves a task to another status
type Mover interface {
	MoveTask(ctx context.Context, id string, status valueobject.Status) (entity.Task, error)
}

// Gesture is a finished drag: the dragged task and the column it was dropped on
type Gesture struct {
	SourceID string
	Target   valueobject.Status
}

// Controller adapts drop events to Mover calls. It holds no gesture state.
type Controller struct {
	mover Mover
}

// NewController creates a controller that moves tasks through mover
func NewController(mover Mover) *Controller {
	return &Controller{mover: mover}
}

// Drop issues exactly one move for the gesture. Dropping a task on its own
// column still issues the call.
func (c *Controller) Drop(ctx context.Context, g Gesture) (entity.Task, error) {
	if g.SourceID == "" {
		return entity.Task{}, entity.ErrNoDragSource
	}
	if !g.Target.IsValid() {
		return entity.Task{}, entity.NewValidationError("status", entity.ErrInvalidStatus.Error())
	}
	return c.mover.MoveTask(ctx, g.SourceID, g.Target)
}
