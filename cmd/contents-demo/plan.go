package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/saylorsolutions/contents/errorsx"
	"gopkg.in/yaml.v3"
)

// Plan describes the scene tree booted by the demo.
type Plan struct {
	// Parallel boots the top level scenes concurrently.
	Parallel bool    `yaml:"parallel"`
	Scenes   []Scene `yaml:"scenes"`
}

// Scene is a unit in the plan, booted after BootDelay with its children appended beneath it.
type Scene struct {
	Name      string        `yaml:"name"`
	BootDelay time.Duration `yaml:"boot_delay"`
	Children  []Scene       `yaml:"children"`
}

// DefaultPlan is used when no plan file is given.
func DefaultPlan() *Plan {
	return &Plan{
		Scenes: []Scene{
			{
				Name:      "title",
				BootDelay: 5 * time.Millisecond,
				Children: []Scene{
					{Name: "menu", BootDelay: 2 * time.Millisecond},
					{Name: "music"},
				},
			},
			{
				Name:      "hud",
				BootDelay: 3 * time.Millisecond,
				Children: []Scene{
					{Name: "score"},
				},
			},
		},
	}
}

// LoadPlan decodes and validates a YAML plan.
// Unknown fields are rejected so that typos don't silently change the plan.
func LoadPlan(r io.Reader) (*Plan, error) {
	var plan Plan
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errorsx.Argument("plan is empty")
		}
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// LoadPlanFile is the same as [LoadPlan], reading from the file at path.
func LoadPlanFile(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return LoadPlan(f)
}

// Validate checks that the plan has at least one scene, and that every scene is named with a non-negative delay.
func (p *Plan) Validate() error {
	if len(p.Scenes) == 0 {
		return errorsx.Argument("plan has no scenes")
	}
	errs := errorsx.CollectErrors()
	var check func(path string, scenes []Scene)
	check = func(path string, scenes []Scene) {
		for i, s := range scenes {
			where := fmt.Sprintf("%s[%d]", path, i)
			if len(s.Name) == 0 {
				errs.Add(errorsx.Argument("%s has no name", where))
			}
			if s.BootDelay < 0 {
				errs.Add(errorsx.Argument("%s has a negative boot delay", where))
			}
			check(where+".children", s.Children)
		}
	}
	check("scenes", p.Scenes)
	return errs.Result()
}

// Count returns the number of scenes in the plan, including nested scenes.
func (p *Plan) Count() int {
	var count func(scenes []Scene) int
	count = func(scenes []Scene) int {
		n := len(scenes)
		for _, s := range scenes {
			n += count(s.Children)
		}
		return n
	}
	return count(p.Scenes)
}
