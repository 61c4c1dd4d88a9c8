// ABOUTME: Tests for the onboarding state machine.
// ABOUTME: Covers the transition table, guards, and reachability of main.
package onboarding

import (
	"errors"
	"testing"
)

func TestTransitions(t *testing.T) {
	full := Form{Name: "Alex", Username: "alex_h", PlantName: "Sprout", Authenticated: true}

	tests := []struct {
		name   string
		from   Step
		action Action
		form   Form
		want   Step
		err    error
	}{
		{"login", StepAuth, ActionLogin, full, StepProfile, nil},
		{"login unauthenticated", StepAuth, ActionLogin, Form{}, StepAuth, ErrGuardFailed},
		{"register link", StepAuth, ActionRegister, Form{}, StepRegister, nil},
		{"back to login", StepRegister, ActionBackToLogin, Form{}, StepAuth, nil},
		{"create account", StepRegister, ActionCreateAccount, full, StepCompanion, nil},
		{"create account missing username", StepRegister, ActionCreateAccount, Form{Name: "Alex"}, StepRegister, ErrGuardFailed},
		{"create account missing name", StepRegister, ActionCreateAccount, Form{Username: "alex_h"}, StepRegister, ErrGuardFailed},
		{"profile continue", StepProfile, ActionContinue, full, StepCompanion, nil},
		{"profile blank name", StepProfile, ActionContinue, Form{Name: "   "}, StepProfile, ErrGuardFailed},
		{"choose companion", StepCompanion, ActionChooseCompanion, Form{}, StepPlantName, nil},
		{"enter care center", StepPlantName, ActionEnterCareCenter, full, StepMain, nil},
		{"blank plant name", StepPlantName, ActionEnterCareCenter, Form{PlantName: " \t"}, StepPlantName, ErrGuardFailed},
		{"auth straight to main", StepAuth, ActionEnterCareCenter, full, StepAuth, ErrInvalidTransition},
		{"profile back", StepProfile, ActionBackToLogin, full, StepProfile, ErrInvalidTransition},
		{"main is terminal", StepMain, ActionLogin, full, StepMain, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.action, tt.form)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("Next() error = %v, want %v", err, tt.err)
				}
			} else if err != nil {
				t.Fatalf("Next() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Next() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAuthOnlyAllowsLoginAndRegister(t *testing.T) {
	got := Actions(StepAuth)
	if len(got) != 2 || got[0] != ActionLogin || got[1] != ActionRegister {
		t.Errorf("Actions(auth) = %v, want [login register]", got)
	}
}

func TestMainHasNoActions(t *testing.T) {
	if got := Actions(StepMain); len(got) != 0 {
		t.Errorf("Actions(main) = %v, want none", got)
	}
	if !StepMain.Terminal() {
		t.Error("main should be terminal")
	}
}

// Every path into main passes through plantName, and the only way into
// plantName is from companion.
func TestMainOnlyReachableThroughPlantName(t *testing.T) {
	for from, edges := range transitions {
		for action, e := range edges {
			if e.to == StepMain && from != StepPlantName {
				t.Errorf("%s via %s reaches main", from, action)
			}
			if e.to == StepPlantName && from != StepCompanion {
				t.Errorf("%s via %s reaches plantName", from, action)
			}
		}
	}
}

func TestMachineFire(t *testing.T) {
	m, err := New(StepAuth)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	form := Form{Name: "Alex", Username: "alex_h", PlantName: "Sprout"}
	steps := []Action{ActionRegister, ActionCreateAccount, ActionChooseCompanion, ActionEnterCareCenter}
	for _, a := range steps {
		if _, err := m.Fire(a, form); err != nil {
			t.Fatalf("Fire(%s) failed: %v", a, err)
		}
	}
	if m.Step() != StepMain {
		t.Errorf("Step() = %s, want main", m.Step())
	}

	if _, err := m.Fire(ActionBackToLogin, form); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition from main, got %v", err)
	}
	if m.Step() != StepMain {
		t.Errorf("failed Fire moved machine to %s", m.Step())
	}
}

func TestNewRejectsUnknownStep(t *testing.T) {
	if _, err := New(Step("splash")); err == nil {
		t.Error("expected error for unknown step")
	}
}

func TestAllowed(t *testing.T) {
	got := Allowed(StepRegister, Form{Name: "Alex"})
	if len(got) != 1 || got[0] != ActionBackToLogin {
		t.Errorf("Allowed(register, no username) = %v, want [back_to_login]", got)
	}
}
