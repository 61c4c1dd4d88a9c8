// ABOUTME: Bubble Tea messages produced outside the update loop.
// ABOUTME: Streamed reply fragments arrive through the model's event channel.
package tui

import (
	"github.com/harperreed/care4u/internal/companion"
)

// fragmentMsg carries one streamed reply fragment.
type fragmentMsg struct {
	fragment companion.Fragment
}
