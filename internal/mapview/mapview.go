// 包 mapview：点位地图的渲染描述；由前端 Leaflet 按描述创建实例，本包负责点位筛选、连线与视野计算
package mapview

import (
	"encoding/json"
	"html/template"
)

const (
	TileURL         = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	TileAttribution = "© OpenStreetMap contributors"
	TileMaxZoom     = 18
)

// LatLng 为 [纬度, 经度]
type LatLng [2]float64

// Popup 为结构化弹窗内容；前端以文本节点渲染，不解释 HTML
type Popup struct {
	Title string   `json:"title"`
	Lines []string `json:"lines,omitempty"`
}

// Point：调用方提供的点位；坐标缺失（nil）的点不绘制，0 为合法坐标
type Point struct {
	Lat         *float64
	Lon         *float64
	Color       string
	Popup       Popup
	NeighborLat *float64
	NeighborLon *float64
}

func (p Point) valid() bool { return p.Lat != nil && p.Lon != nil }

func (p Point) hasNeighbor() bool { return p.NeighborLat != nil && p.NeighborLon != nil }

// LineStyle：连线样式
type LineStyle struct {
	Color     string  `json:"color"`
	Weight    float64 `json:"weight"`
	Opacity   float64 `json:"opacity"`
	DashArray string  `json:"dashArray,omitempty"`
}

// NeighborLine 为最近邻连线的默认样式
var NeighborLine = LineStyle{Color: "#f59e0b", Weight: 2, Opacity: 0.6, DashArray: "5, 10"}

// Options：无有效点位时的默认视野与标记样式
type Options struct {
	Center      LatLng
	Zoom        int
	Radius      float64
	FillOpacity float64
	Padding     int
	// Connect 为真时为每个带最近邻坐标的点先画一条连线
	Connect bool
	Line    LineStyle
}

// DefaultOptions：中心 [20,0]、缩放 2、半径 6、填充透明度 0.8、边距 50
func DefaultOptions() Options {
	return Options{
		Center:      LatLng{20, 0},
		Zoom:        2,
		Radius:      6,
		FillOpacity: 0.8,
		Padding:     50,
		Line:        NeighborLine,
	}
}

type Tiles struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"maxZoom"`
}

type Marker struct {
	At          LatLng  `json:"at"`
	Radius      float64 `json:"radius"`
	FillColor   string  `json:"fillColor"`
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fillOpacity"`
	Popup       Popup   `json:"popup"`
}

type Line struct {
	From  LatLng    `json:"from"`
	To    LatLng    `json:"to"`
	Style LineStyle `json:"style"`
}

// Spec：前端创建地图实例所需的全部信息
// Bounds 为空时使用 Center/Zoom，否则按 Bounds 与 Padding 适配视野
type Spec struct {
	Mount   string     `json:"mount"`
	Handle  uint64     `json:"handle"`
	Tiles   Tiles      `json:"tiles"`
	Center  LatLng     `json:"center"`
	Zoom    int        `json:"zoom"`
	Bounds  *[2]LatLng `json:"bounds,omitempty"`
	Padding int        `json:"padding"`
	Lines   []Line     `json:"lines,omitempty"`
	Markers []Marker   `json:"markers,omitempty"`
}

// Build：按点位生成地图描述
// 约束：连线先于标记输出，保证标记叠在连线之上；视野只覆盖有效点位
func Build(mount string, points []Point, opts Options) Spec {
	s := Spec{
		Mount:   mount,
		Tiles:   Tiles{URL: TileURL, Attribution: TileAttribution, MaxZoom: TileMaxZoom},
		Center:  opts.Center,
		Zoom:    opts.Zoom,
		Padding: opts.Padding,
	}
	var b bounds
	for _, p := range points {
		if !p.valid() {
			continue
		}
		at := LatLng{*p.Lat, *p.Lon}
		if opts.Connect && p.hasNeighbor() {
			s.Lines = append(s.Lines, Line{From: at, To: LatLng{*p.NeighborLat, *p.NeighborLon}, Style: opts.Line})
		}
		s.Markers = append(s.Markers, Marker{
			At:          at,
			Radius:      opts.Radius,
			FillColor:   p.Color,
			Color:       "#fff",
			Weight:      2,
			Opacity:     1,
			FillOpacity: opts.FillOpacity,
			Popup:       p.Popup,
		})
		b.extend(at)
	}
	if b.ok {
		s.Bounds = &[2]LatLng{b.min, b.max}
	}
	return s
}

// JSON：嵌入页面脚本的地图描述
// 约束：json.Marshal 已将 < > & 转义为 \u003c 等形式，可直接置入 script
func (s Spec) JSON() template.JS {
	b, err := json.Marshal(s)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(b)
}

type bounds struct {
	ok       bool
	min, max LatLng
}

func (b *bounds) extend(p LatLng) {
	if !b.ok {
		b.ok = true
		b.min, b.max = p, p
		return
	}
	for i := 0; i < 2; i++ {
		if p[i] < b.min[i] {
			b.min[i] = p[i]
		}
		if p[i] > b.max[i] {
			b.max[i] = p[i]
		}
	}
}
