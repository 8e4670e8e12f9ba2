package domain

import (
	"encoding/json"
	"testing"
)

func TestSeatNavigation(t *testing.T) {
	tests := []struct {
		seat    Seat
		next    Seat
		prev    Seat
		partner Seat
		side    Partnership
	}{
		{seat: North, next: East, prev: West, partner: South, side: NorthSouth},
		{seat: East, next: South, prev: North, partner: West, side: EastWest},
		{seat: South, next: West, prev: East, partner: North, side: NorthSouth},
		{seat: West, next: North, prev: South, partner: East, side: EastWest},
	}
	for _, tt := range tests {
		t.Run(tt.seat.String(), func(t *testing.T) {
			if got := tt.seat.Next(); got != tt.next {
				t.Fatalf("Next() = %v, want %v", got, tt.next)
			}
			if got := tt.seat.Prev(); got != tt.prev {
				t.Fatalf("Prev() = %v, want %v", got, tt.prev)
			}
			if got := tt.seat.Partner(); got != tt.partner {
				t.Fatalf("Partner() = %v, want %v", got, tt.partner)
			}
			if got := tt.seat.Partnership(); got != tt.side {
				t.Fatalf("Partnership() = %v, want %v", got, tt.side)
			}
			if !tt.seat.SameSide(tt.partner) || tt.seat.SameSide(tt.next) {
				t.Fatal("SameSide() disagrees with Partner()")
			}
		})
	}
	if got := West.Offset(-5); got != South {
		t.Fatalf("Offset(-5) = %v, want south", got)
	}
}

func TestParseSeat(t *testing.T) {
	tests := []struct {
		text string
		want Seat
	}{
		{text: "north", want: North},
		{text: "E", want: East},
		{text: " South ", want: South},
		{text: "w", want: West},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseSeat(tt.text)
			if err != nil || got != tt.want {
				t.Fatalf("ParseSeat(%q) = %v, %v, want %v", tt.text, got, err, tt.want)
			}
		})
	}
	if _, err := ParseSeat("middle"); err == nil {
		t.Fatal("ParseSeat(middle) should fail")
	}
}

func TestSeatJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Turn  Seat `json:"turn"`
		Empty Seat `json:"empty"`
	}{Turn: West, Empty: NoSeat})
	if err != nil {
		t.Fatalf("marshal seats: %v", err)
	}
	if got, want := string(data), `{"turn":"west","empty":null}`; got != want {
		t.Fatalf("json = %s, want %s", got, want)
	}

	var decoded struct {
		A Seat `json:"a"`
		B Seat `json:"b"`
		C Seat `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"south","b":1,"c":null}`), &decoded); err != nil {
		t.Fatalf("unmarshal seats: %v", err)
	}
	if decoded.A != South || decoded.B != East || decoded.C != NoSeat {
		t.Fatalf("decoded = %+v", decoded)
	}
	if err := json.Unmarshal([]byte(`{"a":9}`), &decoded); err == nil {
		t.Fatal("ordinal 9 should be rejected")
	}
}

func TestVulnerabilityIncludes(t *testing.T) {
	tests := []struct {
		v    Vulnerability
		ns   bool
		ew   bool
		name string
	}{
		{v: VulnerableNone, name: "none"},
		{v: VulnerableNorthSouth, ns: true, name: "north_south"},
		{v: VulnerableEastWest, ew: true, name: "east_west"},
		{v: VulnerableAll, ns: true, ew: true, name: "all"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Includes(North) != tt.ns || tt.v.Includes(South) != tt.ns {
				t.Fatalf("Includes(north/south) = %v, want %v", tt.v.Includes(North), tt.ns)
			}
			if tt.v.Includes(East) != tt.ew || tt.v.Includes(West) != tt.ew {
				t.Fatalf("Includes(east/west) = %v, want %v", tt.v.Includes(East), tt.ew)
			}
			if tt.v.Includes(NoSeat) {
				t.Fatal("Includes(NoSeat) = true")
			}
			var back Vulnerability
			if err := back.UnmarshalText([]byte(tt.v.String())); err != nil || back != tt.v {
				t.Fatalf("UnmarshalText(%s) = %v, %v", tt.v, back, err)
			}
		})
	}
}
