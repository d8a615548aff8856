package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/louisbranch/xplorehub/internal/services/api/client"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		// Started at init by the genai and cloudinary dependency graph.
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		Addr:         "127.0.0.1:0",
		DBPath:       filepath.Join(dir, "api.db"),
		JWTSecret:    "0123456789abcdef0123456789abcdef",
		TokenTTL:     time.Hour,
		MediaDir:     filepath.Join(dir, "media"),
		NominatimURL: "http://127.0.0.1:1",
	}
}

func TestNewRejectsShortSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.JWTSecret = "short"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("expected error for short jwt secret")
	}
}

func TestServerRoundTrip(t *testing.T) {
	srv, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	t.Cleanup(func() {
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Fatalf("serve: %v", serveErr)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
	})

	api, err := client.New("http://" + srv.Addr())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()
	auth, err := api.Register(ctx, client.RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	api = api.WithToken(auth.AccessToken)

	title, description, price := "Frevo Night", "Live frevo", "15"
	date := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
	created, err := api.CreateEvent(ctx, client.EventInput{
		Title:       &title,
		Description: &description,
		Date:        &date,
		Price:       &price,
		Address:     &client.Address{Street: "Rua da Moeda", City: "Recife", State: "PE", Country: "Brasil"},
	}, nil)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if created.Price != "15.00" {
		t.Fatalf("price = %q, want 15.00", created.Price)
	}

	page, err := api.ListEvents(ctx, client.ListEventsParams{City: "RECIFE", Upcoming: true})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(page.Events) != 1 || page.Events[0].ID != created.ID {
		t.Fatalf("events = %+v, want [%s]", page.Events, created.ID)
	}

	receipt, err := api.CreateOrder(ctx, client.OrderInput{EventID: created.ID, Attendees: []client.Attendee{{Name: "Ana"}}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if receipt.Status != "PENDING" {
		t.Fatalf("status = %q, want PENDING", receipt.Status)
	}

	models, err := api.Models(ctx)
	if err == nil {
		t.Fatalf("models = %v, want permission error", models)
	}
}
