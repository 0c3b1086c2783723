package domain

import (
	"sync/atomic"
	"time"
)

// ============================================================
// Room types
// ============================================================

// Bed types.
const (
	BedSolteiro = "solteiro"
	BedCasal    = "casal"
	BedBeliche  = "beliche"
	BedKing     = "king"
)

// Privacy / bathroom values.
const (
	Privativo     = "privativo"
	Compartilhado = "compartilhado"
)

// AmenityKeys lists every amenity flag a room may carry.
// The prefix groups them (kitchen, bathroom, tech, comfort, workspace, outdoor, extra).
var AmenityKeys = []string{
	"kitchen_chaleiraCafeteira",
	"kitchen_microondas",
	"kitchen_geladeira",
	"kitchen_fogao",
	"kitchen_utensilios",
	"kitchen_cozinhaCompleta",
	"bathroom_produtosDeHigiene",
	"bathroom_secadorDeCabelo",
	"bathroom_toalhas",
	"tech_tv",
	"tech_wifi",
	"tech_streaming",
	"comfort_arCondicionado",
	"comfort_aquecimento",
	"comfort_roupaDeCama",
	"comfort_ferroDePassar",
	"comfort_secadoraDeRoupas",
	"comfort_maquinaDeLavar",
	"workspace_mesaDeTrabalho",
	"outdoor_varanda",
	"outdoor_vistaMar",
	"outdoor_vistaJardim",
	"extra_acessibilidade",
	"extra_petFriendly",
	"extra_fumantesPermitido",
}

// Amenities is the boolean flag map keyed by AmenityKeys.
type Amenities map[string]bool

// NewAmenities returns a map with every known amenity set to false.
func NewAmenities() Amenities {
	a := make(Amenities, len(AmenityKeys))
	for _, k := range AmenityKeys {
		a[k] = false
	}
	return a
}

// BedConfiguration is a bed type and how many of it the room has.
type BedConfiguration struct {
	ID       int    `json:"id"`
	Type     string `json:"type" validate:"required,oneof=solteiro casal beliche king"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

// RoomType is one bookable accommodation category.
type RoomType struct {
	ID            int64              `json:"id,omitempty"`
	Name          string             `json:"name" validate:"required"`
	Description   string             `json:"description"`
	Capacity      int                `json:"capacity" validate:"min=1"`
	Privacy       string             `json:"privacy" validate:"oneof=privativo compartilhado"`
	Bathroom      string             `json:"bathroom" validate:"oneof=privativo compartilhado"`
	Beds          []BedConfiguration `json:"beds" validate:"dive"`
	Amenities     Amenities          `json:"amenities"`
	DailyRate     float64            `json:"daily_rate" validate:"gte=0"`
	TotalQuantity int                `json:"total_quantity" validate:"min=1"`
	Photos        []string           `json:"photos"`
}

// ItemID implements resource.Item.
func (r RoomType) ItemID() int64 { return r.ID }

var roomSeq atomic.Int64

// NewPlaceholderRoomID returns a temporary id for a room not yet saved.
// Placeholders are negative; server ids are positive.
func NewPlaceholderRoomID() int64 {
	return -(time.Now().UnixMilli()*1000 + roomSeq.Add(1)%1000)
}

// IsPlaceholderRoomID reports whether id was generated client-side.
func IsPlaceholderRoomID(id int64) bool {
	return id <= 0
}

// NewRoomTemplate returns the defaults for a freshly added room.
func NewRoomTemplate() RoomType {
	return RoomType{
		ID:            NewPlaceholderRoomID(),
		Capacity:      2,
		Privacy:       Privativo,
		Bathroom:      Privativo,
		Beds:          []BedConfiguration{},
		Amenities:     NewAmenities(),
		TotalQuantity: 1,
		Photos:        []string{},
	}
}
