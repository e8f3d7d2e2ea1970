package workflow

import (
	"context"

	"github.com/sbgadvisor/WellNavigator3/internal/models"
)

// Workflow is a scripted, bounded unit of action triggered by confident
// intent detection, distinct from open-ended chat.
//
// ShouldTrigger must not mutate shared state; its only permitted side effect
// is the classifier's single network call. Execute runs the workflow to
// completion and returns a result whose Message is suitable for direct
// insertion into the dialogue transcript.
type Workflow interface {
	ID() string
	Name() string
	ShouldTrigger(ctx context.Context, userMessage string, recent []models.Message) models.TriggerDecision
	Execute(ctx context.Context, triggerContext map[string]string) models.WorkflowResult
}

// Registry holds all available workflows. Registration order is trigger
// precedence: the dispatcher checks workflows in order and the first
// high-confidence match wins, so order is an implicit priority.
type Registry struct {
	order []Workflow
	byID  map[string]Workflow
}

func NewRegistry(workflows ...Workflow) *Registry {
	r := &Registry{byID: make(map[string]Workflow)}
	for _, w := range workflows {
		r.Register(w)
	}
	return r
}

func (r *Registry) Register(w Workflow) {
	if _, exists := r.byID[w.ID()]; exists {
		return
	}
	r.order = append(r.order, w)
	r.byID[w.ID()] = w
}

func (r *Registry) Get(id string) (Workflow, bool) {
	w, ok := r.byID[id]
	return w, ok
}

// All returns workflows in registration (precedence) order.
func (r *Registry) All() []Workflow {
	out := make([]Workflow, len(r.order))
	copy(out, r.order)
	return out
}
