package trivia

import (
	"context"
	"math"

	"squash-trivia/internal/statsapi"
)

type cloudBand struct {
	min   int
	color string
	label string
}

// 由高到低匹配的场馆数档位
var cloudBands = []cloudBand{
	{500, "#1e40af", "500+ venues"},
	{100, "#3b82f6", "100–499 venues"},
	{50, "#60a5fa", "50–99 venues"},
	{10, "#93c5fd", "10–49 venues"},
	{0, "#dbeafe", "Fewer than 10 venues"},
}

// CloudColor：按场馆数选择词云颜色
func CloudColor(venues int) string {
	return cloudBands[bandIndex(venues)].color
}

func bandIndex(venues int) int {
	for i, b := range cloudBands[:len(cloudBands)-1] {
		if venues >= b.min {
			return i
		}
	}
	return len(cloudBands) - 1
}

// DefaultCloudOptions：字号 = weight^0.5 × 5
var DefaultCloudOptions = CloudOptions{
	GridSize:    8,
	FontFamily:  "Arial, sans-serif",
	RotateRatio: 0.3,
	Background:  "#f7fafc",
	Exponent:    0.5,
	Scale:       5,
}

// FontSize：词云控件使用的非线性权重换算
func (o CloudOptions) FontSize(weight float64) float64 {
	return math.Pow(weight, o.Exponent) * o.Scale
}

func buildCloud(countries []statsapi.WordCloudCountry) *Cloud {
	c := &Cloud{Mount: string(WordCloud) + "-canvas", Options: DefaultCloudOptions, Words: make([]Word, 0, len(countries))}
	counts := make([]int, len(cloudBands))
	for _, country := range countries {
		i := bandIndex(country.Venues)
		counts[i]++
		c.Words = append(c.Words, Word{Text: country.Name, Weight: country.Venues, Color: cloudBands[i].color})
	}
	for i, b := range cloudBands {
		c.Legend = append(c.Legend, LegendBand{Label: b.label, Color: b.color, Count: counts[i]})
	}
	return c
}

func wordCloud() Handler {
	return pipeline[[]statsapi.WordCloudCountry]{
		load: func(ctx context.Context, api Fetcher, _ Request) ([]statsapi.WordCloudCountry, error) {
			var r statsapi.WordCloudResponse
			if err := api.Fetch(ctx, statsapi.EndpointWordCloud, nil, &r); err != nil {
				return nil, err
			}
			return r.Countries, nil
		},
		render: func(_ *RenderContext, countries []statsapi.WordCloudCountry) View {
			return View{Cloud: buildCloud(countries)}
		},
	}
}
