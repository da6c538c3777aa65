package catalog

import (
	"fmt"

	"reverbkit/internal/sampling"
	"reverbkit/internal/services"
)

// Room groups the impulse responses captured in one room. The impulse
// responses are borrowed from the catalog slice.
type Room struct {
	ID   string
	RIRs []*ImpulseResponse
	// Probability is the sum of the member weights.
	Probability float64
}

// Weight returns the room's selection weight.
func (r *Room) Weight() float64 { return r.Probability }

// RoomIndex is the set of rooms built from an impulse-response catalog,
// kept in the order each room was first seen.
type RoomIndex struct {
	rooms []*Room
	byID  map[string]*Room
}

// BuildRoomIndex groups rirs by room. Because impulse-response weights are
// already normalized across the catalog, room weights sum to one as well.
func BuildRoomIndex(rirs []*ImpulseResponse) (*RoomIndex, error) {
	if len(rirs) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "build room index", "no impulse responses", nil)
	}
	index := &RoomIndex{byID: make(map[string]*Room)}
	seen := make(map[string]struct{}, len(rirs))
	for _, rir := range rirs {
		if _, dup := seen[rir.ID]; dup {
			return nil, services.Wrap(services.ErrConfiguration, "catalog", "build room index", fmt.Sprintf("rir id %q appears more than once", rir.ID), nil)
		}
		seen[rir.ID] = struct{}{}

		room, ok := index.byID[rir.RoomID]
		if !ok {
			room = &Room{ID: rir.RoomID}
			index.byID[rir.RoomID] = room
			index.rooms = append(index.rooms, room)
		}
		room.RIRs = append(room.RIRs, rir)
	}
	for _, room := range index.rooms {
		room.Probability = sampling.TotalWeight(room.RIRs)
	}
	return index, nil
}

// Rooms returns the rooms in index order.
func (x *RoomIndex) Rooms() []*Room {
	return x.rooms
}

// Room looks up a room by id.
func (x *RoomIndex) Room(id string) (*Room, bool) {
	room, ok := x.byID[id]
	return room, ok
}

// Len returns the number of rooms.
func (x *RoomIndex) Len() int {
	return len(x.rooms)
}
