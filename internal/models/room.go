package models

import "strconv"

// RoomStatus represents the derived state of a room
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
	RoomCleaning    RoomStatus = "cleaning"
)

// Room type names. The catalog is fixed at exactly these five categories.
const (
	RoomTypeDeluxe      = "Deluxe Room"
	RoomTypeKingSuite   = "King Bed Suite"
	RoomTypeStandard    = "Standard Room"
	RoomTypeExecutive   = "Executive Room"
	RoomTypeFamilySuite = "Family Suite"
)

// Room is a derived view over the fixed catalog. It is regenerated in
// memory on demand and never persisted; occupancy is computed by
// cross-referencing the currentlyInHouse collection.
type Room struct {
	ID         int        `json:"id"`
	RoomNumber string     `json:"roomNumber"`
	RoomType   string     `json:"roomType"`
	Floor      int        `json:"floor"`
	Capacity   int        `json:"capacity"`
	Price      float64    `json:"price"`
	Status     RoomStatus `json:"status"`
	Amenities  []string   `json:"amenities"`
}

// RoomTypeSpec describes one of the five fixed room categories.
type RoomTypeSpec struct {
	Name      string   `json:"name"`
	Count     int      `json:"count"`
	Rate      float64  `json:"rate"`
	Capacity  int      `json:"capacity"`
	Amenities []string `json:"amenities"`
}

// RoomTypes returns the fixed catalog definition: 100 rooms across 5 types.
func RoomTypes() []RoomTypeSpec {
	return []RoomTypeSpec{
		{
			Name:      RoomTypeDeluxe,
			Count:     40,
			Rate:      299,
			Capacity:  2,
			Amenities: []string{"Queen bed", "City view", "Free WiFi", "Mini bar"},
		},
		{
			Name:      RoomTypeKingSuite,
			Count:     20,
			Rate:      499,
			Capacity:  3,
			Amenities: []string{"King bed", "Separate lounge", "Free WiFi", "Bathtub", "Room service"},
		},
		{
			Name:      RoomTypeStandard,
			Count:     25,
			Rate:      199,
			Capacity:  2,
			Amenities: []string{"Double bed", "Free WiFi"},
		},
		{
			Name:      RoomTypeExecutive,
			Count:     10,
			Rate:      349,
			Capacity:  2,
			Amenities: []string{"Queen bed", "Work desk", "Free WiFi", "Safe", "Espresso machine"},
		},
		{
			Name:      RoomTypeFamilySuite,
			Count:     5,
			Rate:      399,
			Capacity:  5,
			Amenities: []string{"Two queen beds", "Sofa bed", "Free WiFi", "Kitchenette"},
		},
	}
}

// RoomCatalog generates the fixed 100-room catalog. Rooms are laid out
// 20 per floor in catalog order, numbered <floor><slot>, e.g. 101, 214.
// Every room starts available; callers derive occupancy.
func RoomCatalog() []Room {
	var rooms []Room
	i := 0
	for _, spec := range RoomTypes() {
		for n := 0; n < spec.Count; n++ {
			floor := i/20 + 1
			slot := i%20 + 1
			rooms = append(rooms, Room{
				ID:         i + 1,
				RoomNumber: roomNumber(floor, slot),
				RoomType:   spec.Name,
				Floor:      floor,
				Capacity:   spec.Capacity,
				Price:      spec.Rate,
				Status:     RoomAvailable,
				Amenities:  spec.Amenities,
			})
			i++
		}
	}
	return rooms
}

func roomNumber(floor, slot int) string {
	return strconv.Itoa(floor*100 + slot)
}
