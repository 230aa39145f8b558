package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/prattikkk/Incubyte/internal/api"
	"github.com/prattikkk/Incubyte/internal/config"
	"github.com/prattikkk/Incubyte/internal/models"
)

func startBackend(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return api.New(config.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil, zerolog.Nop())
}

func TestSweetService_ListBlankFilterSendsNoParams(t *testing.T) {
	var rawQuery string
	client := startBackend(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})
	svc := NewSweetService(client, zerolog.Nop())

	if _, err := svc.List(context.Background(), models.QueryFilter{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rawQuery != "" {
		t.Errorf("RawQuery = %q, want empty", rawQuery)
	}
}

func TestSweetService_ListCategoryOnlySendsOneParam(t *testing.T) {
	var gotQuery map[string][]string
	client := startBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	})
	svc := NewSweetService(client, zerolog.Nop())

	if _, err := svc.List(context.Background(), models.QueryFilter{Category: "Indian"}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(gotQuery) != 1 {
		t.Fatalf("query has %d params, want exactly 1: %v", len(gotQuery), gotQuery)
	}
	if got := gotQuery["category"]; len(got) != 1 || got[0] != "Indian" {
		t.Errorf("category = %v, want [Indian]", got)
	}
}

func TestSweetService_ListPreservesServerOrder(t *testing.T) {
	client := startBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":3,"name":"Zebra Cake"},{"id":1,"name":"Apple Halwa"},{"id":2,"name":"Mango Barfi"}]`))
	})
	svc := NewSweetService(client, zerolog.Nop())

	sweets, err := svc.List(context.Background(), models.QueryFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	want := []int64{3, 1, 2}
	for i, sw := range sweets {
		if sw.ID != want[i] {
			t.Fatalf("order = %v, want server order %v", sweets, want)
		}
	}
}

func TestSweetService_RestockClampsQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     string
	}{
		{"zero clamps to one", 0, "1"},
		{"negative clamps to one", -3, "1"},
		{"positive passes through", 7, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuantity string
			client := startBackend(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuantity = r.URL.Query().Get("quantity")
				w.Write([]byte(`{"id":1,"name":"Ladoo","category":"Indian","price":2.5,"quantity":11}`))
			})
			svc := NewSweetService(client, zerolog.Nop())

			if _, err := svc.Restock(context.Background(), 1, tt.quantity); err != nil {
				t.Fatalf("Restock: %v", err)
			}
			if gotQuantity != tt.want {
				t.Errorf("quantity on the wire = %q, want %q", gotQuantity, tt.want)
			}
		})
	}
}

func TestSweetService_PurchaseRejectsNonPositiveQuantity(t *testing.T) {
	client := startBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be dispatched for an invalid quantity")
	})
	svc := NewSweetService(client, zerolog.Nop())

	_, err := svc.Purchase(context.Background(), 1, 0)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSweetService_CreateDispatchesCoercedBody(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotBody   map[string]any
	)
	client := startBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":9,"name":"Ladoo","category":"Indian","price":2.5,"quantity":10}`))
	})
	svc := NewSweetService(client, zerolog.Nop())

	input, err := ParseSweetInput("Ladoo", "Indian", "2.5", "10")
	if err != nil {
		t.Fatalf("ParseSweetInput: %v", err)
	}

	created, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 9 {
		t.Errorf("created.ID = %d, want 9", created.ID)
	}

	if gotMethod != http.MethodPost || gotPath != "/api/sweets" {
		t.Errorf("dispatched %s %s, want POST /api/sweets", gotMethod, gotPath)
	}
	if gotBody["name"] != "Ladoo" || gotBody["category"] != "Indian" {
		t.Errorf("body = %v, want name Ladoo category Indian", gotBody)
	}
	if gotBody["price"] != 2.5 {
		t.Errorf("price = %v (%T), want numeric 2.5", gotBody["price"], gotBody["price"])
	}
	if gotBody["quantity"] != float64(10) {
		t.Errorf("quantity = %v (%T), want numeric 10", gotBody["quantity"], gotBody["quantity"])
	}
}

func TestParseSweetInput_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		fields [4]string
	}{
		{"blank name", [4]string{"", "Indian", "2.5", "10"}},
		{"blank category", [4]string{"Ladoo", "", "2.5", "10"}},
		{"price not a number", [4]string{"Ladoo", "Indian", "cheap", "10"}},
		{"negative price", [4]string{"Ladoo", "Indian", "-1", "10"}},
		{"quantity not a number", [4]string{"Ladoo", "Indian", "2.5", "many"}},
		{"fractional quantity", [4]string{"Ladoo", "Indian", "2.5", "1.5"}},
		{"negative quantity", [4]string{"Ladoo", "Indian", "2.5", "-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSweetInput(tt.fields[0], tt.fields[1], tt.fields[2], tt.fields[3])
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestParseQueryFilter(t *testing.T) {
	filter, err := ParseQueryFilter(" ladoo ", "", "1.5", "")
	if err != nil {
		t.Fatalf("ParseQueryFilter: %v", err)
	}
	if filter.Name != "ladoo" {
		t.Errorf("Name = %q, want trimmed %q", filter.Name, "ladoo")
	}
	if filter.Category != "" || filter.MaxPrice != nil {
		t.Error("blank fields should stay absent")
	}
	if filter.MinPrice == nil || *filter.MinPrice != 1.5 {
		t.Errorf("MinPrice = %v, want 1.5", filter.MinPrice)
	}

	if _, err := ParseQueryFilter("", "", "abc", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("malformed min price: err = %v, want ErrInvalidInput", err)
	}
	if _, err := ParseQueryFilter("", "", "", "xyz"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("malformed max price: err = %v, want ErrInvalidInput", err)
	}
}

func TestSweetService_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantTarget error
		wantText   string
	}{
		{"not found", http.StatusNotFound, `{"message":"Sweet not found"}`, ErrNotFound, "Sweet not found"},
		{"conflict", http.StatusConflict, `{"message":"Insufficient stock available"}`, ErrConflict, "Insufficient stock available"},
		{"validation", http.StatusBadRequest, `{"message":"quantity must be >= 1"}`, ErrInvalidInput, "quantity must be >= 1"},
		{"forbidden", http.StatusForbidden, `{"message":"Access is denied"}`, ErrUnauthorized, "Access is denied"},
		{"conflict without message", http.StatusConflict, `{}`, ErrConflict, "purchase failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := startBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			svc := NewSweetService(client, zerolog.Nop())

			_, err := svc.Purchase(context.Background(), 42, 1)
			if !errors.Is(err, tt.wantTarget) {
				t.Fatalf("err = %v, want %v in chain", err, tt.wantTarget)
			}
			if got := err.Error(); !strings.Contains(got, tt.wantText) {
				t.Errorf("err text = %q, want it to carry %q", got, tt.wantText)
			}
		})
	}
}
