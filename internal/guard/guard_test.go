package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

type widget struct {
	ID        string
	AccountID string
}

func testGuard(rows map[string]*widget) *Guard[*widget] {
	return New("widget", "WIDGET_NOT_FOUND",
		func(_ context.Context, id string) (*widget, error) {
			w, ok := rows[id]
			if !ok {
				return nil, pgx.ErrNoRows
			}
			return w, nil
		},
		func(w *widget) string { return w.AccountID },
	)
}

func TestRequireReturnsOwnedResource(t *testing.T) {
	g := testGuard(map[string]*widget{"w1": {ID: "w1", AccountID: "acc-1"}})

	got, err := g.Require(context.Background(), "w1", "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "w1" {
		t.Fatalf("got widget %q, want w1", got.ID)
	}
}

func TestRequireMismatchIndistinguishableFromMissing(t *testing.T) {
	g := testGuard(map[string]*widget{"w1": {ID: "w1", AccountID: "acc-1"}})

	_, missingErr := g.Require(context.Background(), "nope", "acc-1")
	_, foreignErr := g.Require(context.Background(), "w1", "acc-2")

	for name, err := range map[string]error{"missing": missingErr, "foreign": foreignErr} {
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) {
			t.Fatalf("%s: expected DomainError, got %v", name, err)
		}
		if domainErr.HTTPStatus != 404 {
			t.Errorf("%s: status = %d, want 404", name, domainErr.HTTPStatus)
		}
		if domainErr.Code != "WIDGET_NOT_FOUND" {
			t.Errorf("%s: code = %q, want WIDGET_NOT_FOUND", name, domainErr.Code)
		}
	}
	if missingErr.Error() != foreignErr.Error() {
		t.Errorf("missing and foreign errors differ: %q vs %q", missingErr, foreignErr)
	}
}

func TestRequirePropagatesLoaderErrors(t *testing.T) {
	boom := errors.New("connection reset")
	g := New("widget", "WIDGET_NOT_FOUND",
		func(_ context.Context, _ string) (*widget, error) { return nil, boom },
		func(w *widget) string { return w.AccountID },
	)

	_, err := g.Require(context.Background(), "w1", "acc-1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error to pass through, got %v", err)
	}
}
