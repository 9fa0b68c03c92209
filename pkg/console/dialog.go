package console

import (
	"context"

	"github.com/newtron-network/netconsole/pkg/form"
)

// Dialog is the local state of one create dialog. The form values live
// here, not in whatever renders them.
type Dialog[F any] struct {
	Open bool
	Form F
	Err  error

	submit func(context.Context, F) error
}

// NewDialog creates a closed dialog that hands its form to submit.
func NewDialog[F any](submit func(context.Context, F) error) *Dialog[F] {
	return &Dialog[F]{submit: submit}
}

// Show opens the dialog with an empty form.
func (d *Dialog[F]) Show() {
	var zero F
	d.Open = true
	d.Form = zero
	d.Err = nil
}

// Cancel closes the dialog, discarding its form.
func (d *Dialog[F]) Cancel() {
	var zero F
	d.Open = false
	d.Form = zero
	d.Err = nil
}

// Submit sends the form. On failure the dialog stays open with Err set so
// the operator can correct it; on success it closes and resets.
func (d *Dialog[F]) Submit(ctx context.Context) error {
	if err := d.submit(ctx, d.Form); err != nil {
		d.Err = err
		return err
	}
	d.Cancel()
	return nil
}

// AddressDialog returns a dialog that creates addresses.
func (c *Console) AddressDialog() *Dialog[form.AddressForm] {
	return NewDialog(func(ctx context.Context, f form.AddressForm) error {
		_, err := c.AddAddress(ctx, f)
		return err
	})
}

// RouteDialog returns a dialog that creates routes.
func (c *Console) RouteDialog() *Dialog[form.RouteForm] {
	return NewDialog(func(ctx context.Context, f form.RouteForm) error {
		_, err := c.AddRoute(ctx, f)
		return err
	})
}
