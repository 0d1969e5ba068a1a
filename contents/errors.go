package contents

import (
	"errors"

	"github.com/saylorsolutions/contents/errorsx"
)

// raisedError marks a failure that has already been offered to the handler chain, so it isn't offered again as it's returned up through parent operations.
type raisedError struct {
	err error
}

func (e *raisedError) Error() string {
	return e.err.Error()
}

func (e *raisedError) Unwrap() error {
	return e.err
}

// throw offers err to the unit's handler chain and returns it to be passed back to the caller.
// Errors raised by handlers along the way are joined to the returned error.
func (b *Base) throw(err error) error {
	if err == nil {
		return nil
	}
	var raised *raisedError
	if errors.As(err, &raised) {
		return err
	}
	b.log.Debug("Raising error", "error", err)
	_, extra := b.offer(err)
	if len(extra) > 0 {
		errs := errorsx.CollectErrors().Add(err)
		for _, e := range extra {
			errs.Add(e)
		}
		err = errs
	}
	return &raisedError{err: err}
}

// offer gives err to this unit's HandleError, then up the tree if it isn't handled.
// Returns whether something handled it, along with any new errors raised by handlers.
func (b *Base) offer(err error) (bool, []error) {
	var handled bool
	newErr := errorsx.Call("handle error", func() error {
		var herr error
		handled, herr = b.self.HandleError(err)
		return herr
	})
	if newErr != nil {
		b.log.Warn("Error handler raised a new error", "error", err, "raised", newErr)
		_, up := b.offerUp(err)
		_, upNew := b.offerUp(newErr)
		raised := append([]error{newErr}, up...)
		return false, append(raised, upNew...)
	}
	if handled {
		return true, nil
	}
	return b.offerUp(err)
}

func (b *Base) offerUp(err error) (bool, []error) {
	if b.parent != nil {
		return b.parent.offer(err)
	}
	return b.controller.offer(err), nil
}

func joinErrors(errs *errorsx.Collector) error {
	switch errs.Len() {
	case 0:
		return nil
	case 1:
		return errs.First()
	default:
		return errs
	}
}
