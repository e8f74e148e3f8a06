package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/futuremakers/market-client/internal/core/domain"
)

func newCatalog(t *testing.T, ttl time.Duration) (*catalogService, *stubGateway) {
	t.Helper()
	gw := newStubGateway()
	gw.addProduct(product("p1", 3, 2))
	return NewCatalogService(gw, 8, ttl, zerolog.Nop()).(*catalogService), gw
}

func TestNormalizeTerm(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"   ":              "",
		"Bracelet":         "bracelet",
		"  beaded   RING ": "beaded ring",
		"\tkey\nchain":     "key chain",
	}
	for in, want := range cases {
		if got := normalizeTerm(in); got != want {
			t.Errorf("normalizeTerm(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCatalogSearch_CachesByNormalisedTerm(t *testing.T) {
	svc, gw := newCatalog(t, time.Minute)
	ctx := context.Background()

	for _, term := range []string{"Bracelet", " bracelet ", "BRACELET"} {
		ps, err := svc.Search(ctx, term)
		if err != nil || len(ps) != 1 {
			t.Fatalf("search %q: (%v, %v)", term, ps, err)
		}
	}

	if len(gw.searches) != 1 || gw.searches[0] != "Bracelet" {
		t.Fatalf("remote searches = %q, want one for \"Bracelet\"", gw.searches)
	}
}

func TestCatalogSearch_SendsTermUnfolded(t *testing.T) {
	svc, gw := newCatalog(t, time.Minute)

	if _, err := svc.Search(context.Background(), `  \Wring\S+ `); err != nil {
		t.Fatal(err)
	}
	if len(gw.searches) != 1 || gw.searches[0] != `\Wring\S+` {
		t.Fatalf("remote searches = %q, want the trimmed pattern as typed", gw.searches)
	}
}

func TestCatalogSearch_CancelledCallerLeavesSharedRequestRunning(t *testing.T) {
	svc, gw := newCatalog(t, time.Minute)
	gate := make(chan struct{})
	gw.searchGate = gate

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := svc.Search(ctx, "ring")
		first <- err
	}()
	waitFor(t, func() bool { return gw.callCount() >= 1 })

	second := make(chan []domain.Product, 1)
	go func() {
		ps, _ := svc.Search(context.Background(), "Ring")
		second <- ps
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller err = %v, want context.Canceled", err)
	}
	close(gate)

	if ps := <-second; len(ps) != 1 {
		t.Fatalf("waiting caller got %d results, want 1", len(ps))
	}
	if _, err := svc.Search(context.Background(), "ring"); err != nil {
		t.Fatal(err)
	}
	if gw.callCount() != 1 {
		t.Errorf("remote searches = %d, want 1", gw.callCount())
	}
}

func TestCatalogSearch_ResultsAreCopies(t *testing.T) {
	svc, _ := newCatalog(t, time.Minute)
	ctx := context.Background()

	first, _ := svc.Search(ctx, "x")
	first[0].Name = "mutated"
	second, _ := svc.Search(ctx, "x")

	if second[0].Name == "mutated" {
		t.Fatal("cached results must not be shared with callers")
	}
}

func TestCatalogSearch_ExpiresAfterTTL(t *testing.T) {
	svc, gw := newCatalog(t, 20*time.Millisecond)
	ctx := context.Background()

	_, _ = svc.Search(ctx, "x")
	time.Sleep(60 * time.Millisecond)
	_, _ = svc.Search(ctx, "x")

	if len(gw.searches) != 2 {
		t.Fatalf("remote searches = %d, want 2 after expiry", len(gw.searches))
	}
}

func TestCatalogInvalidate(t *testing.T) {
	svc, gw := newCatalog(t, time.Minute)
	ctx := context.Background()

	_, _ = svc.Search(ctx, "x")
	svc.Invalidate()
	_, _ = svc.Search(ctx, "x")

	if len(gw.searches) != 2 {
		t.Fatalf("remote searches = %d, want 2 after invalidate", len(gw.searches))
	}
}

func TestCatalogSearch_ConcurrentCallsShareOneRequest(t *testing.T) {
	svc, gw := newCatalog(t, time.Minute)
	gate := make(chan struct{})
	gw.searchGate = gate

	const n = 8
	var wg sync.WaitGroup
	results := make([][]domain.Product, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = svc.Search(context.Background(), "ring")
		}(i)
	}
	waitFor(t, func() bool { return gw.callCount() >= 1 })
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	if gw.callCount() != 1 {
		t.Fatalf("remote searches = %d, want 1", gw.callCount())
	}
	for i, r := range results {
		if len(r) != 1 {
			t.Errorf("caller %d got %d results", i, len(r))
		}
	}
}

func TestCatalogSearch_ErrorsAreNotCached(t *testing.T) {
	svc, gw := newCatalog(t, time.Minute)
	gw.searchErr = errTransport

	if _, err := svc.Search(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
	gw.searchErr = nil
	if ps, err := svc.Search(context.Background(), "x"); err != nil || len(ps) != 1 {
		t.Fatalf("got (%v, %v) after recovery", ps, err)
	}
}
