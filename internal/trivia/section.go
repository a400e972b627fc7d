// 包 trivia：十个趣味统计区块的取数、转换与渲染流水线，以及按页面会话编排它们的协调器
package trivia

import (
	"context"
	"net/url"

	"squash-trivia/internal/mapview"
)

type SectionID string

const (
	CountriesWithoutVenues SectionID = "countries-without-venues"
	HighAltitude           SectionID = "high-altitude"
	ExtremeLatitude        SectionID = "extreme-latitude"
	HotelsResorts          SectionID = "hotels-resorts"
	PopulationArea         SectionID = "population-area"
	UnknownCourts          SectionID = "unknown-courts"
	CountryClub            SectionID = "country-club"
	WordCloud              SectionID = "word-cloud"
	Loneliest              SectionID = "loneliest"
	Graveyard              SectionID = "graveyard"
)

// Status：区块生命周期 idle → loading → loaded|failed；重新取数回到 loading，永不回到 idle
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "idle"
}

// Fetcher：流水线所需的取数能力，由 statsapi.Client 实现
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, params url.Values, out any) error
}

// Request：一次取数的输入
// Prev 为该区块最近一次成功的数据（尚未成功过时为 nil），失败不会清除
type Request struct {
	Filter Filter
	Prev   any
}

// RenderContext：渲染步骤可见的视图状态；地图经 Maps 创建以保证每个挂载点只有一个实例
type RenderContext struct {
	Section SectionID
	Maps    *mapview.Registry
	Tab     string
	Filter  Filter
	Visitor string
}

// Map：在挂载点上（重新）创建地图并返回描述
func (rc *RenderContext) Map(mount string, points []mapview.Point, opts mapview.Options) *mapview.Spec {
	s := rc.Maps.Render(mount, points, opts).Spec()
	return &s
}

// Handler：区块流水线；Load 只取数与转换，Render 只由缓存数据生成视图
type Handler interface {
	Load(ctx context.Context, api Fetcher, req Request) (any, error)
	Render(rc *RenderContext, data any) View
}

// Lister：支持“查看列表”浮层的区块
type Lister interface {
	List(data any) (ListOverlay, bool)
}

// pipeline 把类型化的 load/render 适配为 Handler
type pipeline[T any] struct {
	load   func(ctx context.Context, api Fetcher, req Request) (T, error)
	render func(rc *RenderContext, data T) View
	list   func(data T) ListOverlay
}

func (p pipeline[T]) Load(ctx context.Context, api Fetcher, req Request) (any, error) {
	return p.load(ctx, api, req)
}

func (p pipeline[T]) Render(rc *RenderContext, data any) View {
	d, _ := data.(T)
	return p.render(rc, d)
}

func (p pipeline[T]) List(data any) (ListOverlay, bool) {
	d, ok := data.(T)
	if !ok || p.list == nil {
		return ListOverlay{}, false
	}
	return p.list(d), true
}

// Entry：清单项；协调器启动时按顺序遍历一次
type Entry struct {
	ID      SectionID
	Mount   string
	Title   string
	Handler Handler
	// Tabs 非空时首项为默认标签
	Tabs       []Tab
	Filterable bool
}

// Manifest：全部区块，顺序即页面顺序
func Manifest() []Entry {
	return []Entry{
		{ID: CountriesWithoutVenues, Mount: string(CountriesWithoutVenues), Title: "Countries Without Squash Venues", Handler: countriesWithoutVenues()},
		{ID: HighAltitude, Mount: string(HighAltitude), Title: "High Altitude Squash", Handler: highAltitude()},
		{ID: ExtremeLatitude, Mount: string(ExtremeLatitude), Title: "Extreme Latitude Courts", Handler: extremeLatitude(), Tabs: latitudeTabs},
		{ID: HotelsResorts, Mount: string(HotelsResorts), Title: "Hotels & Resorts with Squash", Handler: hotelsResorts()},
		{ID: PopulationArea, Mount: string(PopulationArea), Title: "Squash by Population & Area", Handler: populationArea()},
		{ID: UnknownCourts, Mount: string(UnknownCourts), Title: "Venues with Unknown Court Counts", Handler: unknownCourts()},
		{ID: CountryClub, Mount: string(CountryClub), Title: "The 100% Country Club", Handler: countryClub()},
		{ID: WordCloud, Mount: string(WordCloud), Title: "Squash Around the World", Handler: wordCloud()},
		{ID: Loneliest, Mount: string(Loneliest), Title: "The Loneliest Courts", Handler: loneliest()},
		{ID: Graveyard, Mount: string(Graveyard), Title: "The Court Graveyard", Handler: graveyard(), Filterable: true},
	}
}

// ParseSections：解析逗号分隔的区块列表；空串或 "all" 表示全部，未知项忽略
func ParseSections(s string) []SectionID {
	var out []SectionID
	known := map[SectionID]bool{}
	for _, e := range Manifest() {
		known[e.ID] = true
	}
	for _, part := range splitComma(s) {
		if part == "all" {
			return nil
		}
		if id := SectionID(part); known[id] {
			out = append(out, id)
		}
	}
	return out
}
