package dar

import (
	"github.com/google/uuid"
)

// AddressType identifies one of the DAR collections an address can live in.
type AddressType string

// Address collections exposed by DAR. Historic collections hold entries
// that have been superseded or retired from the current registry.
const (
	TypeAddress               AddressType = "adresser"
	TypeAccessAddress         AddressType = "adgangsadresser"
	TypeHistoricAddress       AddressType = "historik/adresser"
	TypeHistoricAccessAddress AddressType = "historik/adgangsadresser"
)

// AllAddressTypes lists every collection in lookup order. Lookups walk this
// order, so current addresses win over historic ones.
var AllAddressTypes = []AddressType{
	TypeAddress,
	TypeAccessAddress,
	TypeHistoricAddress,
	TypeHistoricAccessAddress,
}

// String returns the URL path segment for the address type.
func (t AddressType) String() string {
	return string(t)
}

// IsHistoric reports whether the type refers to a historic collection.
func (t AddressType) IsHistoric() bool {
	return t == TypeHistoricAddress || t == TypeHistoricAccessAddress
}

// Address is a single DAR reply in the "mini" structure. Access addresses
// leave the floor and door fields empty; historic replies carry a non-zero
// RegistryStatus.
type Address struct {
	ID                uuid.UUID `json:"id"`
	Status            int       `json:"status"`
	RegistryStatus    int       `json:"darstatus"`
	RoadCode          string    `json:"vejkode"`
	RoadName          string    `json:"vejnavn"`
	AddressingRoad    string    `json:"adresseringsvejnavn"`
	HouseNumber       string    `json:"husnr"`
	Floor             string    `json:"etage"`
	Door              string    `json:"dør"`
	SupplementaryCity string    `json:"supplerendebynavn"`
	PostalCode        string    `json:"postnr"`
	PostalCodeName    string    `json:"postnrnavn"`
	MunicipalityCode  string    `json:"kommunekode"`
	AccessAddressID   uuid.UUID `json:"adgangsadresseid"`
	X                 float64   `json:"x"`
	Y                 float64   `json:"y"`
	Href              string    `json:"href"`
	Text              string    `json:"betegnelse"`
}

// AutocompleteItem is a single suggestion from the autocomplete endpoint.
type AutocompleteItem struct {
	Type       string           `json:"type"`
	Text       string           `json:"tekst"`
	Suggestion string           `json:"forslagstekst"`
	CaretPos   int              `json:"caretpos"`
	Data       AutocompleteData `json:"data"`
}

// AutocompleteData carries the identifying fields of a suggestion.
type AutocompleteData struct {
	ID               uuid.UUID `json:"id"`
	Href             string    `json:"href"`
	RoadName         string    `json:"vejnavn"`
	HouseNumber      string    `json:"husnr"`
	PostalCode       string    `json:"postnr"`
	PostalCodeName   string    `json:"postnrnavn"`
	MunicipalityCode string    `json:"kommunekode"`
}
