package statsapi

// 文档注释：场馆记录
// 背景：各端点返回的场馆字段不尽相同，可选字段以指针表示“缺失”，0 是合法的坐标与海拔。
type Venue struct {
	Name             string   `json:"name"`
	City             string   `json:"city,omitempty"`
	Country          string   `json:"country"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Elevation        *float64 `json:"elevation,omitempty"`
	Courts           *int     `json:"courts,omitempty"`
	DistanceKm       *float64 `json:"distance_km,omitempty"`
	NearestLatitude  *float64 `json:"nearest_latitude,omitempty"`
	NearestLongitude *float64 `json:"nearest_longitude,omitempty"`
	Address          string   `json:"address,omitempty"`
	DeleteReasonName string   `json:"delete_reason_name,omitempty"`
	DeletedAt        string   `json:"deleted_at,omitempty"`
}

// HasCoords 报告经纬度是否同时存在
func (v Venue) HasCoords() bool { return v.Latitude != nil && v.Longitude != nil }

// HasNearest 报告最近邻坐标是否同时存在
func (v Venue) HasNearest() bool { return v.NearestLatitude != nil && v.NearestLongitude != nil }

type NamedCountry struct {
	Name string `json:"name"`
}

type CountriesWithoutVenuesResponse struct {
	Countries []NamedCountry `json:"countries"`
}

// VenuesResponse 为 elevation/hotels/unknown-courts/loneliest 共用的包络
type VenuesResponse struct {
	Venues []Venue `json:"venues"`
}

type ExtremeLatitudeResponse struct {
	Northerly []Venue `json:"northerly"`
	Southerly []Venue `json:"southerly"`
}

// CountryStat：人口/面积比率记录，比率由接口预先计算
type CountryStat struct {
	Name              string  `json:"name"`
	Population        float64 `json:"population"`
	Area              float64 `json:"area"`
	Venues            int     `json:"venues"`
	Courts            int     `json:"courts"`
	VenuesPerMillion  float64 `json:"venues_per_million"`
	CourtsPerMillion  float64 `json:"courts_per_million"`
	VenuesPer1000SqKm float64 `json:"venues_per_1000_sqkm"`
	CourtsPer1000SqKm float64 `json:"courts_per_1000_sqkm"`
}

type CountryStatsResponse struct {
	Countries []CountryStat `json:"countries"`
}

// ClubCountry：球场数量完整度记录，与 CountryStat 是两种独立形状
type ClubCountry struct {
	Name             string  `json:"name"`
	TotalVenues      int     `json:"total_venues"`
	VenuesWithCourts int     `json:"venues_with_courts"`
	TotalCourts      int     `json:"total_courts"`
	Percentage       float64 `json:"percentage"`
	CourtsPerVenue   float64 `json:"courts_per_venue"`
}

type CountryClubResponse struct {
	Countries []ClubCountry `json:"countries"`
}

type WordCloudCountry struct {
	Name   string `json:"name"`
	Venues int    `json:"venues"`
}

type WordCloudResponse struct {
	Countries []WordCloudCountry `json:"countries"`
}

type GraveyardResponse struct {
	TotalVenues    int     `json:"total_venues"`
	CountriesCount int     `json:"countries_count"`
	CourtsLost     int     `json:"courts_lost"`
	Venues         []Venue `json:"venues"`
}

// DeletionReason：/deletion-reasons 直接返回该结构的数组
type DeletionReason struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
