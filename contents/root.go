package contents

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BootParam lists the contents appended by the root unit of [Controller.BootRoot].
type BootParam struct {
	Contents []Param
	// Parallel boots every content concurrently instead of one after another.
	Parallel bool
}

type rootContent struct {
	Base
}

func (r *rootContent) OnRun(ctx context.Context) error {
	p, ok := ParamAs[BootParam](r)
	if !ok {
		ptr, _ := ParamAs[*BootParam](r)
		if ptr == nil {
			return nil
		}
		p = *ptr
	}
	if p.Parallel || r.controller.cfg.ParallelBoot {
		var group errgroup.Group
		for _, prm := range p.Contents {
			group.Go(func() error {
				_, err := r.AppendParam(ctx, prm)
				return err
			})
		}
		return group.Wait()
	}
	for _, prm := range p.Contents {
		if _, err := r.AppendParam(ctx, prm); err != nil {
			return err
		}
	}
	return nil
}
