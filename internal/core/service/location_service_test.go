package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campneus/cofre/internal/core/domain"
	"github.com/campneus/cofre/internal/core/ports"
)

func newTestLocationService(t *testing.T) (*LocationService, *stubLocationRepo, *stubCredentialRepo) {
	t.Helper()
	locs := newStubLocationRepo()
	creds := newStubCredentialRepo()
	return NewLocationService(locs, creds, zerolog.Nop()), locs, creds
}

func TestLocationService_CreateAndList(t *testing.T) {
	svc, _, _ := newTestLocationService(t)

	created, err := svc.Create(context.Background(), adminPrincipal, ports.LocationInput{Name: "Filial Campinas", Code: "CPS", City: "Campinas"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || !created.Active {
		t.Fatalf("unexpected location: %+v", created)
	}

	for _, principal := range []domain.Principal{adminPrincipal, managerPrincipal, standardPrincipal} {
		locations, err := svc.List(context.Background(), principal)
		if err != nil {
			t.Fatalf("%s list: %v", principal.Role, err)
		}
		if len(locations) != 1 {
			t.Fatalf("%s list: expected 1 location, got %d", principal.Role, len(locations))
		}
	}
}

func TestLocationService_MutationsAdminOnly(t *testing.T) {
	svc, _, _ := newTestLocationService(t)
	created, err := svc.Create(context.Background(), adminPrincipal, ports.LocationInput{Name: "Filial Sul", Code: "SUL"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, principal := range []domain.Principal{managerPrincipal, standardPrincipal} {
		if _, err := svc.Create(context.Background(), principal, ports.LocationInput{Name: "X", Code: "X"}); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("%s create: expected ErrForbidden, got %v", principal.Role, err)
		}
		if _, err := svc.Update(context.Background(), principal, created.ID, ports.LocationInput{Name: "Y", Code: "Y"}); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("%s update: expected ErrForbidden, got %v", principal.Role, err)
		}
		if err := svc.Delete(context.Background(), principal, created.ID); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("%s delete: expected ErrForbidden, got %v", principal.Role, err)
		}
	}
}

func TestLocationService_DeleteBlockedWhileReferenced(t *testing.T) {
	svc, _, creds := newTestLocationService(t)
	created, err := svc.Create(context.Background(), adminPrincipal, ports.LocationInput{Name: "Filial Norte", Code: "NRT"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now := time.Now().UTC()
	if _, err := creds.Create(context.Background(), &domain.Credential{
		SystemName:       "Portal Frota",
		Username:         "fleet",
		SecretCiphertext: "00112233445566778899aabbccddeeff:00112233445566778899aabbccddeeff",
		Category:         domain.CategoryFleetPortals,
		LocationID:       created.ID,
		CreatedAt:        now,
		LastUpdated:      now,
	}); err != nil {
		t.Fatalf("seed credential: %v", err)
	}

	if err := svc.Delete(context.Background(), adminPrincipal, created.ID); !errors.Is(err, domain.ErrLocationInUse) {
		t.Fatalf("expected ErrLocationInUse, got %v", err)
	}

	// remove the referencing credential, delete now proceeds
	for id := range creds.creds {
		if err := creds.Delete(context.Background(), id); err != nil {
			t.Fatalf("cleanup credential: %v", err)
		}
	}
	if err := svc.Delete(context.Background(), adminPrincipal, created.ID); err != nil {
		t.Fatalf("delete after cleanup: %v", err)
	}
	if _, err := svc.Get(context.Background(), adminPrincipal, created.ID); !errors.Is(err, domain.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound after delete, got %v", err)
	}
}

func TestLocationService_DeleteUnknown(t *testing.T) {
	svc, _, _ := newTestLocationService(t)
	if err := svc.Delete(context.Background(), adminPrincipal, "loc-404"); !errors.Is(err, domain.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}
