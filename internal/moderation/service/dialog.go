package service

import (
	"context"
	"sync"

	catalogdomain "github.com/gabonshop/gabonshop-backend/internal/catalog/domain"
	"github.com/gabonshop/gabonshop-backend/internal/moderation/domain"
)

// DialogState is the state of a moderation dialog.
type DialogState int

const (
	DialogClosed DialogState = iota
	DialogOpen
)

func (s DialogState) String() string {
	if s == DialogOpen {
		return "open"
	}
	return "closed"
}

// Target is what a dialog deletes: a product or a user.
type Target struct {
	Type    string
	Product catalogdomain.Product
	UserID  string
}

func ProductTarget(p catalogdomain.Product) Target {
	return Target{Type: domain.TargetProduct, Product: p}
}

func UserTarget(userID string) Target {
	return Target{Type: domain.TargetUser, UserID: userID}
}

// Dialog asks an administrator for a reason before a deletion.
//
//	closed -> Open -> open(reason="") -> SetReason -> open(reason) -> Confirm -> closed
//
// Confirm is refused while the reason is blank. The dialog closes as soon as
// Confirm starts, so a second Confirm gets ErrDialogClosed instead of
// submitting twice; if the deletion fails the dialog reopens with its reason.
type Dialog struct {
	workflow *Workflow
	adminID  string

	mu     sync.Mutex
	state  DialogState
	target Target
	reason string
}

func (w *Workflow) NewDialog(adminID string) *Dialog {
	return &Dialog{workflow: w, adminID: adminID}
}

// Open starts a dialog for target with an empty reason, replacing any
// target that was open.
func (d *Dialog) Open(target Target) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = DialogOpen
	d.target = target
	d.reason = ""
}

func (d *Dialog) SetReason(reason string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DialogOpen {
		return domain.ErrDialogClosed
	}
	d.reason = reason
	return nil
}

// Cancel closes the dialog and discards the reason.
func (d *Dialog) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = DialogClosed
	d.target = Target{}
	d.reason = ""
}

func (d *Dialog) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Dialog) Reason() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reason
}

// CanConfirm reports whether Confirm would be accepted.
func (d *Dialog) CanConfirm() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == DialogOpen && domain.ValidReason(d.reason)
}

// Confirm runs the logged deletion for the open target.
func (d *Dialog) Confirm(ctx context.Context) error {
	d.mu.Lock()
	if d.state != DialogOpen {
		d.mu.Unlock()
		return domain.ErrDialogClosed
	}
	if !domain.ValidReason(d.reason) {
		d.mu.Unlock()
		return domain.ErrEmptyReason
	}
	target, reason := d.target, d.reason
	d.state = DialogClosed
	d.mu.Unlock()

	var err error
	switch target.Type {
	case domain.TargetProduct:
		err = d.workflow.DeleteProductWithReason(ctx, target.Product, reason, d.adminID)
	default:
		err = d.workflow.DeleteUserWithReason(ctx, target.UserID, reason, d.adminID)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.state = DialogOpen
		return err
	}
	d.target = Target{}
	d.reason = ""
	return nil
}
