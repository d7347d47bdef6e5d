package reconcile

import "context"

// Confirmer gates each mutation phase. Returning false skips that phase only.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AutoConfirm approves every phase (--yes)
type AutoConfirm struct{}

func (AutoConfirm) Confirm(context.Context, string) (bool, error) { return true, nil }

// DeclineAll skips every phase, for non-interactive runs without --yes
type DeclineAll struct{}

func (DeclineAll) Confirm(context.Context, string) (bool, error) { return false, nil }
