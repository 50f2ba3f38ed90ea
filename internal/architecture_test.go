package internal

import (
	"github.com/kcmvp/archunit"
	"testing"
)

func TestArchitecture(t *testing.T) {
	domain := archunit.Packages("domain", []string{".../internal/domain/..."})
	adapters := archunit.Packages("adapters", []string{".../internal/adapters/..."})
	ports := archunit.Packages("ports", []string{".../internal/ports"})

	// Rule 1: Domain should not depend on adapters
	if err := domain.ShouldNotReferLayers(adapters); err != nil {
		t.Errorf("Architecture violation: Domain depends on Adapters: %v", err)
	}

	// Rule 2: Ports are pure contracts, no adapter references
	if err := ports.ShouldNotReferLayers(adapters); err != nil {
		t.Errorf("Architecture violation: Ports depend on Adapters: %v", err)
	}
}

func TestContracts(t *testing.T) {
	// Simple check for ports package presence
	ports := archunit.Packages("ports", []string{".../internal/ports"})
	if len(ports.Packages()) == 0 {
		t.Error("No ports package found")
	}
}
