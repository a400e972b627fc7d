package statsapi

// 统计接口的固定路径；均为只读 GET
const (
	EndpointCountriesWithoutVenues = "/countries-without-venues"
	EndpointVenuesWithElevation    = "/venues-with-elevation"
	EndpointExtremeLatitude        = "/extreme-latitude-venues"
	EndpointHotelsAndResorts       = "/hotels-and-resorts"
	EndpointCountryStats           = "/countries-with-venues-stats"
	EndpointUnknownCourts          = "/venues-with-unknown-courts"
	EndpointCountryClub            = "/country-club-100-percent"
	EndpointWordCloud              = "/countries-wordcloud"
	EndpointLoneliest              = "/loneliest-courts"
	EndpointGraveyard              = "/court-graveyard"
	EndpointDeletionReasons        = "/deletion-reasons"
)

// Endpoints 按页面区块顺序列出全部端点，供巡检工具遍历
var Endpoints = []string{
	EndpointCountriesWithoutVenues,
	EndpointVenuesWithElevation,
	EndpointExtremeLatitude,
	EndpointHotelsAndResorts,
	EndpointCountryStats,
	EndpointUnknownCourts,
	EndpointCountryClub,
	EndpointWordCloud,
	EndpointLoneliest,
	EndpointGraveyard,
	EndpointDeletionReasons,
}

// 墓地筛选参数；一次请求只携带其中之一
const (
	ParamCountry        = "country"
	ParamDeleteReasonID = "delete_reason_id"
)
