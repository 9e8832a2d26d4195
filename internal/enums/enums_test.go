package enums

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestValid(t *testing.T) {
	if !Valid(VehicleTypes, "Minibus") {
		t.Fatalf("expected Minibus to be a known vehicle type")
	}
	if Valid(VehicleTypes, "Tuk-tuk") {
		t.Fatalf("did not expect Tuk-tuk to be valid")
	}
	if Valid(nil, "anything") {
		t.Fatalf("empty list matches nothing")
	}
}

func TestCatalogRoute(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/enums"))

	req := httptest.NewRequest(http.MethodGet, "/enums/", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("catalog status: %v", err)
	}

	var catalog Catalog
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(catalog.Races) == 0 || len(catalog.Languages) == 0 {
		t.Fatalf("expected populated catalog, got %+v", catalog)
	}
}
