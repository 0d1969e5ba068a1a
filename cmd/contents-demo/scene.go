package main

import (
	"context"
	"fmt"
	"time"

	"github.com/saylorsolutions/contents/contents"
	"github.com/saylorsolutions/contents/patterns/caller"
	"github.com/saylorsolutions/contents/syncx"
)

type sceneEvent int

const (
	// eventNext switches the first responding scene to its next generation.
	eventNext sceneEvent = iota
)

// switchRequest is the payload of eventNext, and carries the pending switch back to the sender.
type switchRequest struct {
	result syncx.FutureErr[struct{}]
}

type sceneParam struct {
	contents.ContentParam[sceneContent, *sceneContent]
	Scene
	Generation int
}

func (p *sceneParam) String() string {
	return fmt.Sprintf("%s/%d", p.Name, p.Generation)
}

type sceneContent struct {
	contents.Base
}

func (s *sceneContent) Bindings() []caller.Binding {
	return []caller.Binding{
		caller.OnParam(eventNext, (*sceneContent).next),
	}
}

func (s *sceneContent) scene() *sceneParam {
	p, _ := contents.ParamAs[*sceneParam](s)
	return p
}

func (s *sceneContent) OnBoot(ctx context.Context) error {
	p := s.scene()
	if p.BootDelay > 0 {
		timer := time.NewTimer(p.BootDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	for _, child := range p.Children {
		if _, err := s.AppendParam(ctx, &sceneParam{Scene: child, Generation: p.Generation}); err != nil {
			return err
		}
	}
	return nil
}

// next starts the switch in a routine so that message delivery isn't held up by the transition.
func (s *sceneContent) next(req *switchRequest) {
	p := s.scene()
	req.result = s.Go(func(ctx context.Context) error {
		// The switch shuts this scene down, which would cancel ctx.
		_, err := s.SwitchParam(context.WithoutCancel(ctx), &sceneParam{Scene: p.Scene, Generation: p.Generation + 1})
		return err
	})
}

// tally summarizes the live scene tree.
type tally struct {
	Scenes     int
	Generation int
}

var _ contents.ModalContent[tally] = (*tallyContent)(nil)

// tallyContent is started as a modal to count the scenes that are live.
type tallyContent struct {
	contents.Base
}

func (t *tallyContent) ModalResult(context.Context) (tally, error) {
	var result tally
	for _, s := range contents.GetAll[*sceneContent](t.Controller(), true) {
		result.Scenes++
		result.Generation = max(result.Generation, s.scene().Generation)
	}
	return result, nil
}
