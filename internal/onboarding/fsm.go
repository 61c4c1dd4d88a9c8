// ABOUTME: Onboarding state machine gating entry to the dashboard.
// ABOUTME: Steps, actions, and a transition table with per-edge guards.
package onboarding

import (
	"errors"
	"fmt"
	"strings"
)

// Step is one stage of the onboarding flow.
type Step string

const (
	StepAuth      Step = "auth"
	StepRegister  Step = "register"
	StepProfile   Step = "profile"
	StepCompanion Step = "companion"
	StepPlantName Step = "plantName"
	StepMain      Step = "main"
)

// AllSteps lists steps in flow order.
var AllSteps = []Step{StepAuth, StepRegister, StepProfile, StepCompanion, StepPlantName, StepMain}

// IsValidStep checks if a string names a known step.
func IsValidStep(s string) bool {
	for _, st := range AllSteps {
		if string(st) == s {
			return true
		}
	}
	return false
}

// Terminal reports whether the step is the dashboard gate.
func (s Step) Terminal() bool {
	return s == StepMain
}

// Action is a user action that may move the flow forward.
type Action string

const (
	ActionLogin           Action = "login"
	ActionRegister        Action = "register"
	ActionBackToLogin     Action = "back_to_login"
	ActionCreateAccount   Action = "create_account"
	ActionContinue        Action = "continue"
	ActionChooseCompanion Action = "choose_companion"
	ActionEnterCareCenter Action = "enter_care_center"
)

var (
	// ErrInvalidTransition is returned when an action is not defined for the current step.
	ErrInvalidTransition = errors.New("invalid onboarding transition")
	// ErrGuardFailed is returned when required fields for a transition are missing.
	ErrGuardFailed = errors.New("onboarding requirements not met")
)

// Form is the draft input the guards inspect.
type Form struct {
	Name          string
	Username      string
	PlantName     string
	Authenticated bool
}

type guard func(Form) bool

type edge struct {
	to    Step
	guard guard
}

// transitions is the complete table; anything missing is illegal.
var transitions = map[Step]map[Action]edge{
	StepAuth: {
		ActionLogin:    {to: StepProfile, guard: func(f Form) bool { return f.Authenticated }},
		ActionRegister: {to: StepRegister},
	},
	StepRegister: {
		ActionBackToLogin:   {to: StepAuth},
		ActionCreateAccount: {to: StepCompanion, guard: func(f Form) bool { return f.Name != "" && f.Username != "" }},
	},
	StepProfile: {
		ActionContinue: {to: StepCompanion, guard: func(f Form) bool { return strings.TrimSpace(f.Name) != "" }},
	},
	StepCompanion: {
		ActionChooseCompanion: {to: StepPlantName},
	},
	StepPlantName: {
		ActionEnterCareCenter: {to: StepMain, guard: func(f Form) bool { return strings.TrimSpace(f.PlantName) != "" }},
	},
}

// Machine tracks the current onboarding step.
type Machine struct {
	step Step
}

// New returns a machine positioned at the given step.
func New(start Step) (*Machine, error) {
	if !IsValidStep(string(start)) {
		return nil, fmt.Errorf("unknown onboarding step: %q", start)
	}
	return &Machine{step: start}, nil
}

// Step returns the current step.
func (m *Machine) Step() Step {
	return m.step
}

// Next computes the destination of an action without moving the machine.
func Next(from Step, action Action, form Form) (Step, error) {
	e, ok := transitions[from][action]
	if !ok {
		return from, fmt.Errorf("%s from %s: %w", action, from, ErrInvalidTransition)
	}
	if e.guard != nil && !e.guard(form) {
		return from, fmt.Errorf("%s from %s: %w", action, from, ErrGuardFailed)
	}
	return e.to, nil
}

// Fire applies an action, moving the machine when the transition is legal.
func (m *Machine) Fire(action Action, form Form) (Step, error) {
	next, err := Next(m.step, action, form)
	if err != nil {
		return m.step, err
	}
	m.step = next
	return next, nil
}

// CanFire reports whether an action would succeed from the given step.
func CanFire(from Step, action Action, form Form) bool {
	_, err := Next(from, action, form)
	return err == nil
}

// Actions lists every action defined for a step, regardless of guards.
func Actions(from Step) []Action {
	var out []Action
	for _, a := range actionOrder {
		if _, ok := transitions[from][a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Allowed lists the actions whose guards currently pass.
func Allowed(from Step, form Form) []Action {
	var out []Action
	for _, a := range Actions(from) {
		if CanFire(from, a, form) {
			out = append(out, a)
		}
	}
	return out
}

var actionOrder = []Action{
	ActionLogin, ActionRegister, ActionBackToLogin, ActionCreateAccount,
	ActionContinue, ActionChooseCompanion, ActionEnterCareCenter,
}
