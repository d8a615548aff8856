package event

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
)

func ptr[T any](v T) *T { return &v }

var fixedNow = time.Date(2026, time.May, 10, 9, 0, 0, 0, time.UTC)

func validInput() CreateInput {
	return CreateInput{
		Title:        " Rooftop Jazz ",
		Description:  "Live **jazz** on the roof.",
		Date:         "2026-06-01T20:00:00Z",
		MaxAttendees: ptr(40),
		Price:        "25.5",
		Address: Address{
			Street:  "Rua da Aurora",
			Number:  "325",
			City:    "Recife",
			State:   "PE",
			Country: "Brasil",
		},
	}
}

func TestCreate(t *testing.T) {
	ev, err := Create(validInput(), "user-1",
		func() time.Time { return fixedNow },
		func() (string, error) { return "event-1", nil },
	)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := Event{
		ID:           "event-1",
		CreatorID:    "user-1",
		Title:        "Rooftop Jazz",
		Description:  "Live **jazz** on the roof.",
		Date:         time.Date(2026, time.June, 1, 20, 0, 0, 0, time.UTC),
		Location:     "Rua da Aurora, 325 - Recife - PE - Brasil",
		MaxAttendees: ptr(40),
		PriceCents:   2550,
		Address:      validInput().Address,
		CreatedAt:    fixedNow,
		UpdatedAt:    fixedNow,
	}
	if diff := cmp.Diff(want, ev); diff != "" {
		t.Fatalf("event mismatch (-want +got):\n%s", diff)
	}
	if ev.Price() != "25.50" {
		t.Fatalf("price = %q", ev.Price())
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateInput)
		want   apperrors.Code
	}{
		{"title", func(in *CreateInput) { in.Title = "  " }, apperrors.CodeEventTitleEmpty},
		{"description", func(in *CreateInput) { in.Description = "" }, apperrors.CodeEventDescriptionEmpty},
		{"date", func(in *CreateInput) { in.Date = "next friday" }, apperrors.CodeEventDateInvalid},
		{"capacity", func(in *CreateInput) { in.MaxAttendees = ptr(0) }, apperrors.CodeEventCapacityInvalid},
		{"price precision", func(in *CreateInput) { in.Price = "1.999" }, apperrors.CodeEventPriceInvalid},
		{"negative price", func(in *CreateInput) { in.Price = "-1" }, apperrors.CodeEventPriceInvalid},
		{"address", func(in *CreateInput) { in.Address.City = "" }, apperrors.CodeEventAddressInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := Create(in, "user-1", nil, nil)
			if got := apperrors.CodeOf(err); got != tc.want {
				t.Fatalf("code = %s, want %s (err=%v)", got, tc.want, err)
			}
		})
	}
	if _, err := Create(validInput(), " ", nil, nil); apperrors.CodeOf(err) != apperrors.CodeUnauthenticated {
		t.Fatalf("expected unauthenticated without creator, got %v", err)
	}
}

func TestNormalizeAddressListsMissingFields(t *testing.T) {
	_, err := NormalizeAddress(Address{Street: "x", Lat: ptr(10.0)})
	e, ok := apperrors.As(err)
	if !ok {
		t.Fatalf("expected domain error, got %v", err)
	}
	if e.Metadata["Fields"] != "city, state, country, lat/lng" {
		t.Fatalf("fields = %q", e.Metadata["Fields"])
	}
}

func TestParseDate(t *testing.T) {
	tests := map[string]time.Time{
		"2026-06-01T20:00:00Z":      time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC),
		"2026-06-01T20:00:00-03:00": time.Date(2026, 6, 1, 23, 0, 0, 0, time.UTC),
		"2026-06-01T20:00":          time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC),
		"2026-06-01":                time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	for input, want := range tests {
		got, err := ParseDate(input)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", input, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDate(%q) = %s, want %s", input, got, want)
		}
	}
	if _, err := ParseDate("01/06/2026"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}

func TestApplyPatch(t *testing.T) {
	current, err := Create(validInput(), "user-1", func() time.Time { return fixedNow }, func() (string, error) { return "event-1", nil })
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	current.Address.Lat, current.Address.Lng = ptr(-8.06), ptr(-34.87)

	later := fixedNow.Add(time.Hour)
	next, relocated, err := ApplyPatch(current, PatchInput{
		Title: ptr("Rooftop Jazz II"),
		Price: ptr("0"),
	}, func() time.Time { return later })
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if relocated {
		t.Fatal("unexpected relocation")
	}
	if next.Title != "Rooftop Jazz II" || next.PriceCents != 0 || !next.UpdatedAt.Equal(later) {
		t.Fatalf("unexpected event: %+v", next)
	}
	if !next.Address.HasCoordinates() {
		t.Fatal("coordinates should survive unrelated patch")
	}

	moved, relocated, err := ApplyPatch(current, PatchInput{Address: &AddressPatch{City: ptr("Olinda")}}, nil)
	if err != nil {
		t.Fatalf("patch address: %v", err)
	}
	if !relocated {
		t.Fatal("expected relocation")
	}
	if moved.Address.City != "Olinda" || moved.Address.Street != "Rua da Aurora" {
		t.Fatalf("address not merged: %+v", moved.Address)
	}
	if moved.Address.HasCoordinates() {
		t.Fatal("stale coordinates should be cleared on relocation")
	}

	if _, _, err := ApplyPatch(current, PatchInput{MaxAttendees: ptr(-1)}, nil); apperrors.CodeOf(err) != apperrors.CodeEventCapacityInvalid {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if _, _, err := ApplyPatch(current, PatchInput{Address: &AddressPatch{Street: ptr("")}}, nil); apperrors.CodeOf(err) != apperrors.CodeEventAddressInvalid {
		t.Fatalf("expected address error, got %v", err)
	}
	if !(PatchInput{}).Empty() {
		t.Fatal("expected empty patch")
	}
}

func TestAvailableAndCanManage(t *testing.T) {
	ev := Event{CreatorID: "owner", MaxAttendees: ptr(10), RegisteredCount: 12}
	if got, bounded := ev.Available(); !bounded || got != 0 {
		t.Fatalf("Available = %d, %v", got, bounded)
	}
	ev.MaxAttendees = nil
	if _, bounded := ev.Available(); bounded {
		t.Fatal("expected unbounded capacity")
	}
	if !ev.CanManage("owner", false) || ev.CanManage("other", false) || !ev.CanManage("other", true) || ev.CanManage("", false) {
		t.Fatal("unexpected CanManage result")
	}
	ev.Date = fixedNow
	if !ev.HasStarted(fixedNow) || ev.HasStarted(fixedNow.Add(-time.Second)) {
		t.Fatal("unexpected HasStarted result")
	}
}
