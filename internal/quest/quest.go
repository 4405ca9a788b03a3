// Package quest models AI-suggested goals linking a tool to a dimension.
package quest

import (
	"time"

	"github.com/google/uuid"

	"sattva/internal/coherence"
)

// Quest ties a target tool to the dimension it should help with. At most one
// quest is active at a time; completing it (by using the named tool) moves it
// to the completed list.
type Quest struct {
	ID          string              `json:"id"`
	ToolID      string              `json:"toolId"`
	Dimension   coherence.Dimension `json:"dimension"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"createdAt"`
	CompletedAt time.Time           `json:"completedAt,omitempty"`
}

// New creates an uncompleted quest.
func New(toolID string, dim coherence.Dimension, description string, now time.Time) Quest {
	return Quest{
		ID:          uuid.NewString(),
		ToolID:      toolID,
		Dimension:   dim,
		Description: description,
		CreatedAt:   now,
	}
}

// Completed reports whether the quest has been finished.
func (q Quest) Completed() bool { return !q.CompletedAt.IsZero() }
