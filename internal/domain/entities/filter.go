package entities

// FilterType enumerates the breakdown dimensions a report can be filtered
// on. Every value a breakdown row exposes as its label must work as a
// filter value for the matching type.
type FilterType string

const (
	FilterChannel  FilterType = "channel"
	FilterReferrer FilterType = "referrer"
	FilterCountry  FilterType = "country"
	FilterCity     FilterType = "city"
	FilterRegion   FilterType = "region"
	FilterBrowser  FilterType = "browser"
	FilterOS       FilterType = "os"
	FilterDevice   FilterType = "device"
	FilterCampaign FilterType = "campaign"
	FilterKeyword  FilterType = "keyword"
	FilterPage     FilterType = "page"
)

// Filter is one user-selected constraint over a report dimension. Active
// filters compose with AND semantics and apply identically to sessions,
// signups and connections.
type Filter struct {
	Type  FilterType `json:"type"`
	Value string     `json:"value"`
}

var filterTypes = map[FilterType]bool{
	FilterChannel:  true,
	FilterReferrer: true,
	FilterCountry:  true,
	FilterCity:     true,
	FilterRegion:   true,
	FilterBrowser:  true,
	FilterOS:       true,
	FilterDevice:   true,
	FilterCampaign: true,
	FilterKeyword:  true,
	FilterPage:     true,
}

func ValidFilterType(t string) bool {
	return filterTypes[FilterType(t)]
}
