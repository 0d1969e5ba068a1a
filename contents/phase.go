package contents

import (
	"strings"
)

// Phase is a bit mask of lifecycle phases a [Module] participates in.
type Phase uint32

const (
	PhasePreBoot Phase = 1 << iota
	PhaseBoot
	PhasePreShutdown
	PhaseShutdown
	PhasePreRun
	PhaseRun
	PhasePreSuspend
	PhaseSuspend
	PhasePreEnable
	PhaseEnable
	PhasePreDisable
	PhaseDisable
	PhasePreSwitch
	PhaseSwitch
	PhaseEndSwitch

	PhaseNone Phase = 0
	PhaseAll        = PhaseEndSwitch<<1 - 1
)

var phaseNames = []string{
	"PreBoot",
	"Boot",
	"PreShutdown",
	"Shutdown",
	"PreRun",
	"Run",
	"PreSuspend",
	"Suspend",
	"PreEnable",
	"Enable",
	"PreDisable",
	"Disable",
	"PreSwitch",
	"Switch",
	"EndSwitch",
}

// Has reports whether every phase in other is also in p.
func (p Phase) Has(other Phase) bool {
	return p&other == other
}

// Phases returns each single phase in p, in lifecycle declaration order.
func (p Phase) Phases() []Phase {
	var phases []Phase
	for i := range phaseNames {
		if single := Phase(1) << i; p&single != 0 {
			phases = append(phases, single)
		}
	}
	return phases
}

func (p Phase) String() string {
	if p == PhaseNone {
		return "None"
	}
	var names []string
	for i, name := range phaseNames {
		if p&(Phase(1)<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}
